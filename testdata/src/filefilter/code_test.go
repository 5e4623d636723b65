package filefilter

import "os"

//fnpolicy:nocalls "Exit"
func exitInTest() { // want `exitInTest: 1 policy violation\(s\): call to forbidden function .Exit.`
	os.Exit(1)
}
