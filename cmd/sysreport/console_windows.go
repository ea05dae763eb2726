//go:build windows

package main

import "golang.org/x/sys/windows"

// enableConsoleUTF8 switches the console output code page to UTF-8 so
// the box-drawing characters survive legacy consoles.
func enableConsoleUTF8() {
	kernel32 := windows.NewLazySystemDLL("kernel32.dll")
	setConsoleOutputCP := kernel32.NewProc("SetConsoleOutputCP")
	setConsoleOutputCP.Call(uintptr(65001))
}
