package platform

import (
	"fmt"
	"sync"

	"github.com/go-drift/maps/pkg/errors"
)

// channelRegistry manages all registered platform channels.
type channelRegistry struct {
	methodChannels map[string]*MethodChannel
	mu             sync.RWMutex
}

var registry = &channelRegistry{
	methodChannels: make(map[string]*MethodChannel),
}

func (r *channelRegistry) registerMethod(name string, ch *MethodChannel) {
	r.mu.Lock()
	r.methodChannels[name] = ch
	r.mu.Unlock()
}

func (r *channelRegistry) getMethodChannel(name string) *MethodChannel {
	r.mu.RLock()
	ch := r.methodChannels[name]
	r.mu.RUnlock()
	return ch
}

// nativeBridge is the interface to native platform code.
// This is set by the embedding application during initialization.
var (
	nativeBridge   NativeBridge
	nativeBridgeMu sync.RWMutex
)

// NativeBridge defines the interface for calling native platform code.
type NativeBridge interface {
	// InvokeMethod calls a method on the native side.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)
}

// SetNativeBridge sets the native bridge implementation.
func SetNativeBridge(bridge NativeBridge) {
	nativeBridgeMu.Lock()
	nativeBridge = bridge
	nativeBridgeMu.Unlock()
}

func currentBridge() NativeBridge {
	nativeBridgeMu.RLock()
	defer nativeBridgeMu.RUnlock()
	return nativeBridge
}

// invokeNative calls a method on the native side.
func invokeNative(channel, method string, args any) (any, error) {
	bridge := currentBridge()
	if bridge == nil {
		return nil, ErrPlatformUnavailable
	}

	argsData, err := DefaultCodec.Encode(args)
	if err != nil {
		return nil, err
	}

	resultData, err := bridge.InvokeMethod(channel, method, argsData)
	if err != nil {
		return nil, err
	}

	return DefaultCodec.Decode(resultData)
}

// HandleMethodCall is called from the bridge when native invokes a Go method.
// Panics in handlers are recovered and reported rather than crossing the
// bridge.
func HandleMethodCall(channel, method string, argsData []byte) (result []byte, err error) {
	ch := registry.getMethodChannel(channel)
	if ch == nil {
		return nil, ErrChannelNotFound
	}

	args, err := DefaultCodec.Decode(argsData)
	if err != nil {
		errors.Report(&errors.DriftError{
			Op:      "platform.HandleMethodCall",
			Kind:    errors.KindParsing,
			Channel: channel,
			Err:     err,
		})
		return nil, err
	}

	defer errors.RecoverWithCallback("platform.HandleMethodCall", func(r any) {
		result, err = nil, fmt.Errorf("platform: %s.%s panicked: %v", channel, method, r)
	})

	value, err := ch.handleCall(method, args)
	if err != nil {
		return nil, err
	}

	return DefaultCodec.Encode(value)
}

// ResetForTest resets all global platform state for test isolation.
// This should only be called from tests.
func ResetForTest() {
	SetNativeBridge(nil)
	RegisterDispatch(nil)
	mapRegistry.reset()
}
