//go:build darwin
// +build darwin

package controller

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Foundation -framework IOKit

#import <Foundation/Foundation.h>
#import <IOKit/IOKitLib.h>
#import <IOKit/pwr_mgt/IOPMLib.h>
#import <IOKit/IOMessage.h>

void goPowerEvent(int sleeping);

static io_connect_t powerPort;
static IONotificationPortRef powerNotifyPort;
static io_object_t powerNotifier;
static CFRunLoopRef powerRunLoop;

static void powerChangeCallback(void *refCon, io_service_t service, natural_t messageType, void *messageArgument) {
    switch (messageType) {
        case kIOMessageSystemWillSleep:
            goPowerEvent(1);
            IOAllowPowerChange(powerPort, (long)messageArgument);
            break;
        case kIOMessageSystemHasPoweredOn:
            goPowerEvent(0);
            break;
        default:
            break;
    }
}

static int startPowerNotifications() {
    powerPort = IORegisterForSystemPower(NULL, &powerNotifyPort, powerChangeCallback, &powerNotifier);
    if (powerPort == 0) {
        return -1;
    }
    powerRunLoop = CFRunLoopGetCurrent();
    CFRunLoopAddSource(powerRunLoop, IONotificationPortGetRunLoopSource(powerNotifyPort), kCFRunLoopDefaultMode);
    return 0;
}

static void runPowerLoop() {
    CFRunLoopRun();
}

static void stopPowerNotifications() {
    if (powerRunLoop && powerNotifyPort) {
        CFRunLoopRemoveSource(powerRunLoop, IONotificationPortGetRunLoopSource(powerNotifyPort), kCFRunLoopDefaultMode);
        CFRunLoopStop(powerRunLoop);
    }
    if (powerNotifier) {
        IODeregisterForSystemPower(&powerNotifier);
    }
    if (powerNotifyPort) {
        IONotificationPortDestroy(powerNotifyPort);
    }
    if (powerPort) {
        IOServiceClose(powerPort);
    }
}
*/
import "C"

import (
	"fmt"
	"sync"
)

// SystemEventHandler receives system sleep and wake notifications
type SystemEventHandler interface {
	OnSystemSleep()
	OnSystemWake()
}

var (
	powerMu      sync.Mutex
	powerHandler SystemEventHandler
	powerRunning bool
)

// RegisterSystemEventHandler subscribes the handler to IOKit power events.
// Only one handler is supported; the daemon is the sole consumer.
func RegisterSystemEventHandler(handler SystemEventHandler) error {
	powerMu.Lock()
	defer powerMu.Unlock()

	powerHandler = handler
	if powerRunning {
		return nil
	}

	if C.startPowerNotifications() != 0 {
		powerHandler = nil
		return fmt.Errorf("failed to register for system power notifications")
	}
	powerRunning = true

	go func() {
		C.runPowerLoop()
	}()

	return nil
}

// UnregisterSystemEventHandler drops the handler and tears down the IOKit
// subscription
func UnregisterSystemEventHandler(handler SystemEventHandler) {
	powerMu.Lock()
	defer powerMu.Unlock()

	if powerHandler != handler {
		return
	}
	powerHandler = nil

	if powerRunning {
		C.stopPowerNotifications()
		powerRunning = false
	}
}

//export goPowerEvent
func goPowerEvent(sleeping C.int) {
	powerMu.Lock()
	handler := powerHandler
	powerMu.Unlock()

	if handler == nil {
		return
	}
	if sleeping != 0 {
		handler.OnSystemSleep()
	} else {
		handler.OnSystemWake()
	}
}
