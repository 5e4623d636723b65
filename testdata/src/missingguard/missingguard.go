// Package missingguard declares guards without generating their routines.
package missingguard

//fnpolicy:calledby "Main" // want "guard routine BootCallsite is not generated; run fnpolicy-guard"
func Boot() {} // want Boot:"calledby Main"

//fnpolicy:mutatedby "Open" // want "guard routine ledgerMutates is not generated; run fnpolicy-guard"
type ledger struct { // want ledger:"mutatedby Open"
	total int
}

func Open() *ledger {
	l := &ledger{}
	l.total = 1
	return l
}

func Main() {
	Boot()
}

func reset(l *ledger) {
	l.total = 0 // want `reset mutates fields in ledger without registering with ledgerMutates`
}
