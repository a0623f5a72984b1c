package main

import "github.com/goplus/buildproj/cmd/buildproj/internal"

func main() {
	internal.Execute()
}
