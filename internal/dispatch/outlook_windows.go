//go:build windows

package dispatch

import (
	"errors"
	"fmt"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

const sFalse = 0x00000001

func openInOutlook(path string, placeholders map[string]string) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		// S_FALSE: COM was already initialized on this thread.
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			return fmt.Errorf("%w: initialize com: %v", ErrHostAPI, err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Outlook.Application")
	if err != nil {
		return fmt.Errorf("%w: start outlook: %v", ErrHostAPI, err)
	}
	defer unknown.Release()

	outlook, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("%w: outlook dispatch: %v", ErrHostAPI, err)
	}
	defer outlook.Release()

	itemVar, err := oleutil.CallMethod(outlook, "CreateItemFromTemplate", path)
	if err != nil {
		return fmt.Errorf("%w: open template: %v", ErrHostAPI, err)
	}
	defer itemVar.Clear()

	item := itemVar.ToIDispatch()
	if item == nil {
		return fmt.Errorf("%w: outlook returned no mail item", ErrHostAPI)
	}

	bodyVar, err := oleutil.GetProperty(item, "HTMLBody")
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrHostAPI, err)
	}
	body := bodyVar.ToString()
	_ = bodyVar.Clear()

	if _, err := oleutil.PutProperty(item, "HTMLBody", Substitute(body, placeholders)); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrHostAPI, err)
	}

	if _, err := oleutil.CallMethod(item, "Display"); err != nil {
		return fmt.Errorf("%w: display item: %v", ErrHostAPI, err)
	}

	return nil
}
