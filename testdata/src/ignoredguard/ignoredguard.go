// Package ignoredguard declares a guard on an ignored function.
package ignoredguard

//fnpolicy:ignore
//fnpolicy:calledby "Main"
func Boot() {} // want Boot:"calledby Main"

//fnpolicy:ignore
//fnpolicy:callz "x"
func quiet() {}

func Main() {
	Boot()
}

func Other() {
	Boot() // want `Other calls Boot without registering with BootCallsite`
}
