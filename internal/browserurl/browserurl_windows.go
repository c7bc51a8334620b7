//go:build windows

package browserurl

import (
	"context"
	"fmt"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// windowsExtractor reads the address bar of a focused browser window
// through the UI Automation COM interface, following the same
// CoInitializeEx/oleutil.CreateObject/QueryInterface shape the
// patching collaborator uses to drive the Windows Update Agent COM
// object — here against "UIAutomationClient" instead.
type windowsExtractor struct{}

// New returns the platform Extractor for Windows.
func New() Extractor {
	return windowsExtractor{}
}

func (windowsExtractor) GetActiveURL(ctx context.Context, appName string, processID int) (string, bool, error) {
	if !IsBrowser(appName) {
		return "", false, nil
	}

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		return "", false, fmt.Errorf("co-initialize: %w", err)
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("UIAutomationClient.CUIAutomation")
	if err != nil {
		// UI Automation COM server unavailable on this system; this is
		// a soft miss, not a hard error.
		return "", false, nil
	}
	defer unknown.Release()

	automation, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return "", false, fmt.Errorf("query IDispatch: %w", err)
	}
	defer automation.Release()

	url, ok := findAddressBarValue(automation, processID)
	return url, ok, nil
}

// findAddressBarValue returns the CurrentName of the element that has
// keyboard focus. It does not walk the ancestor chain, check the
// control type or automation id, or use processID, so the value is the
// address bar's only when the address bar holds focus. Best-effort:
// any COM failure degrades to "not found" rather than propagating.
func findAddressBarValue(automation *ole.IDispatch, processID int) (string, bool) {
	focusedVar, err := oleutil.CallMethod(automation, "GetFocusedElement")
	if err != nil || focusedVar.VT != ole.VT_DISPATCH {
		return "", false
	}
	element := focusedVar.ToIDispatch()
	defer element.Release()

	nameVar, err := oleutil.GetProperty(element, "CurrentName")
	if err != nil {
		return "", false
	}
	name := nameVar.ToString()
	if name == "" {
		return "", false
	}
	return name, true
}
