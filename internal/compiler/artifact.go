package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// artifact is a single-contract file written by Hardhat
// (artifacts/.../X.json) or Foundry (out/X.sol/X.json).
type artifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	AST          *struct {
		AbsolutePath string `json:"absolutePath"`
	} `json:"ast"`
}

// singleContract wraps one ABI as a one-file compilation result. The contract
// is named after the artifact, or after the file when the artifact has no name.
func singleContract(file string, a artifact) (*CompilationResult, error) {
	if len(a.ABI) == 0 || a.ABI[0] != '[' {
		return nil, fmt.Errorf("%w: %s: \"abi\" is not an array", ErrMalformedResult, file)
	}
	name := a.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	source := a.SourceName
	if source == "" && a.AST != nil {
		source = a.AST.AbsolutePath
	}
	if source == "" {
		source = file
	}
	return &CompilationResult{
		Contracts: map[string]map[string]ContractOutput{
			source: {name: {ABI: a.ABI}},
		},
	}, nil
}

// rawABI treats data as a bare ABI array saved to file.
func rawABI(file string, data []byte) (*CompilationResult, error) {
	var entries []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: expected an ABI array: %v", ErrMalformedResult, file, err)
	}
	return singleContract(file, artifact{ABI: data})
}

// LoadFiles reads and merges compiler outputs from paths. Each path may be a
// solc standard-JSON output, a Hardhat build-info file, a Hardhat or Foundry
// contract artifact, or a raw ABI array. Results are merged file by file in
// the order given; failed compilations contribute their diagnostics only.
func LoadFiles(paths ...string) (Event, error) {
	merged := Event{
		Sources: map[string]SourceUnit{},
		Result:  &CompilationResult{Contracts: map[string]map[string]ContractOutput{}},
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return Event{}, fmt.Errorf("reading %s: %w", p, err)
		}
		ev, err := ParseEvent(p, data)
		if err != nil {
			return Event{}, err
		}
		if ev.Version != "" {
			merged.Version = ev.Version
		}
		merged.Errors = append(merged.Errors, ev.Errors...)
		for k, v := range ev.Sources {
			merged.Sources[k] = v
		}
		if ev.Result == nil {
			continue
		}
		for file, contracts := range ev.Result.Contracts {
			if merged.Result.Contracts[file] == nil {
				merged.Result.Contracts[file] = map[string]ContractOutput{}
			}
			for name, c := range contracts {
				merged.Result.Contracts[file][name] = c
			}
		}
	}
	merged.File = strings.Join(paths, ",")
	if len(merged.Result.Contracts) == 0 {
		merged.Result = nil
	}
	return merged, nil
}

// Files lists the source files of a result in the order Flatten visits them.
func (r *CompilationResult) Files() []string {
	files := make([]string, 0, len(r.Contracts))
	for f := range r.Contracts {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}
