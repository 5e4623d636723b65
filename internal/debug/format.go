package debug

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/mpyw/fnpolicy/internal/tree"
)

// Format renders info as indented text.
func Format(info *Info, fset *token.FileSet) string {
	if info == nil {
		return ""
	}

	var buf strings.Builder

	// Function header
	fmt.Fprintf(&buf, "Function: %s\n", info.Key)
	if info.Func != nil {
		fmt.Fprintf(&buf, "  Declared: line %d\n", fset.Position(info.Func.Pos).Line)
		if info.Func.Body != nil {
			fmt.Fprintf(&buf, "\n  Tree:\n")
			writeNode(&buf, info.Func.Body, 2)
		}
	}

	if len(info.Calls) > 0 {
		fmt.Fprintf(&buf, "\n  Calls:\n")
		for i, s := range info.Calls {
			fmt.Fprintf(&buf, "    %d. line %d: %s\n", i+1, fset.Position(s.Pos).Line, s.Name)
		}
	}

	if len(info.Writes) > 0 {
		fmt.Fprintf(&buf, "\n  Writes:\n")
		for _, w := range info.Writes {
			fmt.Fprintf(&buf, "    %s\n", w.Type)
			if len(w.Writes) == 0 {
				fmt.Fprintf(&buf, "       └─ (none)\n")
			}
			for _, wr := range w.Writes {
				fmt.Fprintf(&buf, "       ├─ line %d: %s.%s\n", fset.Position(wr.Pos).Line, wr.Name, wr.Field)
			}
		}
	}

	if len(info.Required) > 0 {
		fmt.Fprintf(&buf, "\n  Registrations:\n")
		for _, r := range info.Required {
			status := "missing"
			if r.Found {
				status = "found"
			}
			fmt.Fprintf(&buf, "    %s (line %d): %s\n", r.Statement, fset.Position(r.Pos).Line, status)
		}
	}

	if len(info.Violations) > 0 {
		fmt.Fprintf(&buf, "\n  Violations:\n")
		for _, v := range info.Violations {
			fmt.Fprintf(&buf, "    line %d: %s\n", fset.Position(v.Pos).Line, v.Message())
		}
	}

	return buf.String()
}

// writeNode writes n and its children, one node per line.
func writeNode(buf *strings.Builder, n tree.Node, depth int) {
	fmt.Fprintf(buf, "%s%s\n", strings.Repeat("  ", depth), label(n))
	for _, child := range tree.Children(n) {
		writeNode(buf, child, depth+1)
	}
}

func label(n tree.Node) string {
	switch n := n.(type) {
	case *tree.Call:
		if name := n.Name(); name != "" {
			return "Call " + name
		}
		return "Call"
	case *tree.MethodCall:
		return "MethodCall ." + n.Method
	case *tree.Block:
		if n.Implicit {
			return "Block (implicit)"
		}
		return "Block"
	case *tree.If:
		return "If"
	case *tree.While:
		return "While"
	case *tree.For:
		if n.Range != nil {
			return "For range"
		}
		return "For"
	case *tree.Closure:
		return "Closure"
	case *tree.Local:
		if n.Type != "" {
			return fmt.Sprintf("Local %s %s", strings.Join(n.Names, ", "), n.Type)
		}
		return "Local " + strings.Join(n.Names, ", ")
	case *tree.Assign:
		return "Assign"
	case *tree.CompoundAssign:
		return "CompoundAssign " + n.Op
	case *tree.FieldAccess:
		return "FieldAccess ." + n.Field
	case *tree.Path:
		return "Path " + n.String()
	case *tree.Composite:
		return "Composite " + n.Type
	case *tree.Other:
		return "Other " + n.Op
	default:
		return fmt.Sprintf("%T", n)
	}
}
