// Code generated by hand for testing. DO NOT EDIT.

package filefilter

import "os"

//fnpolicy:nocalls "Exit"
func generatedExit() {
	os.Exit(1)
}

//fnpolicy:frobnicate
func generatedMalformed() {}
