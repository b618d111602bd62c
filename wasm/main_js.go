//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/voxelsplace/schemglb/api"
	"github.com/voxelsplace/schemglb/config"
)

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func packArg(args []js.Value) []byte {
	if len(args) > 1 && !args[1].IsUndefined() && !args[1].IsNull() {
		return bytesArg(args[1])
	}
	return nil
}

// schem2glb(schemBytes[, packBytes]) returns a Uint8Array or an error string.
func schem2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing schem bytes")
	}
	out, err := api.SchemToGLB(bytesArg(args[0]), packArg(args))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	uint8arr := js.Global().Get("Uint8Array").New(len(out))
	js.CopyBytesToJS(uint8arr, out)
	return uint8arr
}

// schemPreview(schemBytes[, packBytes]) returns the viewer parameters as a
// JSON string, or an object {error} on failure.
func schemPreview(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing schem bytes"})
	}
	p, err := api.BuildPreview(bytesArg(args[0]), packArg(args), api.DefaultOptions())
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	data, err := json.Marshal(p.ViewerParams(api.PreviewOptionsFromConfig(config.Default().Viewer)))
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(string(data))
}

func main() {
	js.Global().Set("schem2glb", js.FuncOf(schem2glb))
	js.Global().Set("schemPreview", js.FuncOf(schemPreview))
	select {}
}
