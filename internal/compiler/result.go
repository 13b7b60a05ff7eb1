package compiler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

)

// ErrMalformedResult is returned when a compilation result does not have the
// file → contract → {abi} shape.
var ErrMalformedResult = errors.New("malformed compilation result")

// ContractOutput is the per-contract part of the solc output. Only the ABI is
// used; everything else (bytecode, metadata, …) is ignored.
type ContractOutput struct {
	ABI json.RawMessage `json:"abi"`
}

// Diagnostic is one entry of the solc "errors" array.
type Diagnostic struct {
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
}

// SourceUnit is one entry of the solc "sources" map.
type SourceUnit struct {
	ID      int    `json:"id"`
	Content string `json:"content,omitempty"`
}

// CompilationResult mirrors solc's standard-JSON output.
type CompilationResult struct {
	Contracts map[string]map[string]ContractOutput `json:"contracts"`
	Sources   map[string]SourceUnit                `json:"sources,omitempty"`
	Errors    []Diagnostic                         `json:"errors,omitempty"`
}

// Failed reports whether solc emitted at least one error-severity diagnostic.
func (r *CompilationResult) Failed() bool {
	for _, d := range r.Errors {
		if d.Severity == "error" {
			return true
		}
	}
	return false
}

// Interface is what the plugin keeps per contract: its ABI entries, passed
// through verbatim so the builder receives exactly what the compiler emitted.
type Interface struct {
	ABI []json.RawMessage `json:"abi"`
}

// Kinds counts the ABI entries per "type" (function, event, error, ...).
// Entries without a type are functions, as in the ABI JSON format.
func (i Interface) Kinds() map[string]int {
	out := map[string]int{}
	for _, raw := range i.ABI {
		var e struct {
			Type string `json:"type"`
		}
		if json.Unmarshal(raw, &e) != nil {
			continue
		}
		if e.Type == "" {
			e.Type = "function"
		}
		out[e.Type]++
	}
	return out
}

// ContractMap maps contract name → interface. Names are unique within one
// compilation; see Flatten for how cross-file collisions are resolved.
type ContractMap map[string]Interface

// Names returns the contract names in sorted order.
func (m ContractMap) Names() []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Flatten reduces the nested file → contract map into a single contract
// namespace. Files are visited in sorted order and a contract name that
// appears in several files keeps the ABI of the last file visited.
func Flatten(result *CompilationResult) (ContractMap, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: result is nil", ErrMalformedResult)
	}
	if result.Contracts == nil {
		return nil, fmt.Errorf("%w: missing \"contracts\"", ErrMalformedResult)
	}

	out := make(ContractMap)
	for _, file := range result.Files() {
		for name, c := range result.Contracts[file] {
			entries, err := splitABI(c.ABI)
			if err != nil {
				return nil, fmt.Errorf("%w: %s:%s: %v", ErrMalformedResult, file, name, err)
			}
			out[name] = Interface{ABI: entries}
		}
	}
	return out, nil
}

// abiTypes are the entry types of the contract ABI JSON format. An entry
// without a type is a function.
var abiTypes = map[string]bool{
	"": true, "function": true, "constructor": true, "receive": true,
	"fallback": true, "event": true, "error": true,
}

// splitABI checks that raw is a JSON array of ABI entries with known types
// and returns the entries untouched. Parameter types are not interpreted.
func splitABI(raw json.RawMessage) ([]json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("abi is missing")
	}
	if raw[0] != '[' {
		return nil, errors.New("abi is not a JSON array")
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("abi: %w", err)
	}
	for i, e := range entries {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(e, &head); err != nil {
			return nil, fmt.Errorf("abi entry %d: %w", i, err)
		}
		if !abiTypes[head.Type] {
			return nil, fmt.Errorf("abi entry %d: unknown type %q", i, head.Type)
		}
	}
	if entries == nil {
		entries = []json.RawMessage{}
	}
	return entries, nil
}

// Event is what a Source delivers when the compiler finishes.
type Event struct {
	File    string
	Sources map[string]SourceUnit
	Version string
	Result  *CompilationResult // nil when compilation produced nothing usable
	Errors  []Diagnostic
}

// ParseEvent decodes a compiler output file into an Event. Accepted shapes:
// solc standard-JSON output, Hardhat build-info ({"solcVersion", "input",
// "output"}), a single Hardhat or Foundry contract artifact ({"abi", ...})
// and a raw ABI array. A failed compilation without contracts yields an
// Event with a nil Result.
func ParseEvent(file string, data []byte) (Event, error) {
	ev := Event{File: file}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ev, fmt.Errorf("%w: %s is empty", ErrMalformedResult, file)
	}
	if data[0] == '[' {
		res, err := rawABI(file, data)
		if err != nil {
			return ev, err
		}
		ev.Result = res
		return ev, nil
	}

	var probe struct {
		SolcVersion string          `json:"solcVersion"`
		Output      json.RawMessage `json:"output"`
		Contracts   json.RawMessage `json:"contracts"`
		artifact
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ev, fmt.Errorf("%w: %s: %v", ErrMalformedResult, file, err)
	}
	switch {
	case len(probe.Output) > 0:
		data = probe.Output
		ev.Version = probe.SolcVersion
	case len(probe.Contracts) == 0 && len(probe.ABI) > 0:
		res, err := singleContract(file, probe.artifact)
		if err != nil {
			return ev, err
		}
		ev.Result = res
		return ev, nil
	}

	var res CompilationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return ev, fmt.Errorf("%w: %s: %v", ErrMalformedResult, file, err)
	}
	ev.Sources = res.Sources
	ev.Errors = res.Errors

	if len(res.Contracts) == 0 && res.Failed() {
		return ev, nil
	}
	if res.Contracts == nil {
		return ev, fmt.Errorf("%w: %s has no \"contracts\" key", ErrMalformedResult, file)
	}
	ev.Result = &res
	return ev, nil
}

// Diagnostics renders the error-severity diagnostics, one per line.
func Diagnostics(ds []Diagnostic) string {
	var sb strings.Builder
	for _, d := range ds {
		if d.Severity != "error" {
			continue
		}
		msg := d.FormattedMessage
		if msg == "" {
			msg = d.Message
		}
		sb.WriteString(strings.TrimSpace(msg) + "\n")
	}
	return sb.String()
}
