package platform

import "sync/atomic"

// dispatcher runs native-originated callbacks, such as marker removal
// notifications, on the UI thread where controllers live.
var dispatcher atomic.Pointer[func(callback func())]

// RegisterDispatch installs the function that schedules callbacks on the UI
// thread. The embedding app calls it once during startup; pass nil to
// uninstall. Until one is registered, marker removals reported by native
// are dropped and reported with [ErrNoDispatcher].
func RegisterDispatch(fn func(callback func())) {
	if fn == nil {
		dispatcher.Store(nil)
		return
	}
	dispatcher.Store(&fn)
}

// Dispatch schedules callback on the UI thread. It reports false when no
// dispatcher is registered or callback is nil.
func Dispatch(callback func()) bool {
	fn := dispatcher.Load()
	if fn == nil || callback == nil {
		return false
	}
	(*fn)(callback)
	return true
}
