//go:build darwin
// +build darwin

package controller

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation -framework AppKit

#import <Foundation/Foundation.h>
#import <AppKit/AppKit.h>

void hideFromDock() {
    [NSApplication sharedApplication];
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}
*/
import "C"

// HideFromDock hides the application from the macOS Dock. A tray monitor has
// no window, so the Dock tile is only clutter.
func HideFromDock() {
	C.hideFromDock()
}
