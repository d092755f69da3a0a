package lsp

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// BaseCapabilities returns the client-capability JSON the host
// advertises without any extension contribution.
func BaseCapabilities() []byte {
	caps := []byte(`{}`)
	caps, _ = sjson.SetBytes(caps, "textDocument.synchronization.didSave", true)
	caps, _ = sjson.SetBytes(caps, "textDocument.synchronization.willSave", false)
	caps, _ = sjson.SetBytes(caps, "textDocument.hover.contentFormat", []string{"markdown", "plaintext"})
	caps, _ = sjson.SetBytes(caps, "textDocument.publishDiagnostics.relatedInformation", true)
	caps, _ = sjson.SetBytes(caps, "workspace.configuration", true)
	caps, _ = sjson.SetBytes(caps, "workspace.workspaceFolders", true)
	caps, _ = sjson.SetBytes(caps, "window.workDoneProgress", true)
	return caps
}

// MergeCapabilities overlays a contributed JSON fragment onto base.
// Fragment leaves overwrite base leaves; objects merge recursively. An
// empty fragment returns base unchanged.
func MergeCapabilities(base, fragment []byte) ([]byte, error) {
	if len(fragment) == 0 {
		return base, nil
	}
	if !gjson.ValidBytes(fragment) {
		return base, fmt.Errorf("%w: invalid JSON fragment", ErrBadCapabilities)
	}

	parsed := gjson.ParseBytes(fragment)
	if !parsed.IsObject() {
		return base, fmt.Errorf("%w: fragment must be an object", ErrBadCapabilities)
	}

	out := base
	var mergeErr error
	var walk func(prefix string, obj gjson.Result)
	walk = func(prefix string, obj gjson.Result) {
		obj.ForEach(func(key, value gjson.Result) bool {
			path := key.String()
			if prefix != "" {
				path = prefix + "." + path
			}
			if value.IsObject() {
				walk(path, value)
				return true
			}
			var err error
			out, err = sjson.SetRawBytes(out, path, []byte(value.Raw))
			if err != nil {
				mergeErr = fmt.Errorf("%w: setting %s: %v", ErrBadCapabilities, path, err)
				return false
			}
			return true
		})
	}
	walk("", parsed)

	if mergeErr != nil {
		return base, mergeErr
	}
	return out, nil
}
