package typeutil

import (
	"go/parser"
	"testing"
)

func TestTypeString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want string
	}{
		{"MyStruct", "MyStruct"},
		{"*pkg.MyStruct", "*pkg.MyStruct"},
		{"[]*T", "[]*T"},
		{"map[string]T", "map[string]T"},
		{"List[int]", "List[int]"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			expr, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr(%q): %v", tt.src, err)
			}
			if got := TypeString(expr); got != tt.want {
				t.Errorf("TypeString(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}

	if got := TypeString(nil); got != "" {
		t.Errorf("TypeString(nil) = %q, want empty", got)
	}
}

func TestBaseName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "MyStruct", "MyStruct"},
		{"pointer", "*MyStruct", "MyStruct"},
		{"double pointer", "**MyStruct", "MyStruct"},
		{"qualified", "*pkg.T", "pkg.T"},
		{"parenthesized", "(*T)", "T"},
		{"generic", "*List[int]", "List"},
		{"generic multi", "Pair[K, V]", "Pair"},
		{"slice untouched", "[]T", "[]T"},
		{"map untouched", "map[string]T[int]", "map[string]T[int]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := BaseName(tt.in); got != tt.want {
				t.Errorf("BaseName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ, target string
		want        bool
	}{
		{"*MyStruct", "MyStruct", true},
		{"MyStruct", "MyStruct", true},
		{"*other.MyStruct", "MyStruct", false},
		{"*other.MyStruct", "other.MyStruct", true},
		{"MyStructs", "MyStruct", false},
		{"[]MyStruct", "MyStruct", false},
		{"MyStruct", "", false},
	}

	for _, tt := range tests {
		if got := Matches(tt.typ, tt.target); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.typ, tt.target, got, tt.want)
		}
	}
}

func TestContainsElement(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  string
		want bool
	}{
		{"[]MyStruct", true},
		{"[]*MyStruct", true},
		{"...MyStruct", true},
		{"[4]MyStruct", true},
		{"map[string]*MyStruct", true},
		{"map[MyStruct]int", true},
		{"chan MyStruct", true},
		{"<-chan *MyStruct", true},
		{"chan<- MyStruct", true},
		{"[][]MyStruct", true},
		{"map[string][]MyStruct", true},
		{"*MyStruct", false},
		{"MyStruct", false},
		{"[]int", false},
		{"map[string]Other", false},
	}

	for _, tt := range tests {
		if got := ContainsElement(tt.typ, "MyStruct"); got != tt.want {
			t.Errorf("ContainsElement(%q) = %v, want %v", tt.typ, got, tt.want)
		}
	}
}
