package compiler_test

import (
	"encoding/json"
	"testing"

	"github.com/Mohsinsiddi/dappos/internal/compiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	abiTransfer = `[{"type":"function","name":"transfer","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable"}]`
	abiGreeter  = `[{"type":"function","name":"greet","inputs":[],"outputs":[{"name":"","type":"string"}],"stateMutability":"view"},{"type":"event","name":"Greeted","inputs":[{"name":"who","type":"address","indexed":true}],"anonymous":false}]`
)

func result(files map[string]map[string]string) *compiler.CompilationResult {
	r := &compiler.CompilationResult{Contracts: map[string]map[string]compiler.ContractOutput{}}
	for file, contracts := range files {
		r.Contracts[file] = map[string]compiler.ContractOutput{}
		for name, abi := range contracts {
			r.Contracts[file][name] = compiler.ContractOutput{ABI: json.RawMessage(abi)}
		}
	}
	return r
}

// ---------------------------------------------------------------------------
// Flatten
// ---------------------------------------------------------------------------

func TestFlattenSingleFile(t *testing.T) {
	r := result(map[string]map[string]string{
		"contracts/Token.sol": {"Token": abiTransfer, "Greeter": abiGreeter, "Empty": `[]`},
	})

	m, err := compiler.Flatten(r)
	require.NoError(t, err)
	require.Len(t, m, 3)

	assert.Len(t, m["Token"].ABI, 1)
	assert.Len(t, m["Greeter"].ABI, 2)
	assert.Empty(t, m["Empty"].ABI)
	assert.JSONEq(t, abiGreeter, mustJSON(t, m["Greeter"].ABI))
}

func TestFlattenCollisionLastFileWins(t *testing.T) {
	r := result(map[string]map[string]string{
		"a/Token.sol": {"Token": abiTransfer},
		"b/Token.sol": {"Token": abiGreeter},
	})

	m, err := compiler.Flatten(r)
	require.NoError(t, err)
	require.Len(t, m, 1)
	// b/Token.sol sorts after a/Token.sol, so it overwrites.
	assert.JSONEq(t, abiGreeter, mustJSON(t, m["Token"].ABI))
}

func TestFlattenMultipleFilesMerged(t *testing.T) {
	r := result(map[string]map[string]string{
		"A.sol": {"A": abiTransfer},
		"B.sol": {"B": abiGreeter},
	})

	m, err := compiler.Flatten(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, m.Names())
}

func TestFlattenNilResult(t *testing.T) {
	_, err := compiler.Flatten(nil)
	assert.ErrorIs(t, err, compiler.ErrMalformedResult)
}

func TestFlattenMissingContracts(t *testing.T) {
	_, err := compiler.Flatten(&compiler.CompilationResult{})
	assert.ErrorIs(t, err, compiler.ErrMalformedResult)
}

func TestFlattenABINotArray(t *testing.T) {
	r := result(map[string]map[string]string{"X.sol": {"X": `{"type":"function"}`}})
	_, err := compiler.Flatten(r)
	require.ErrorIs(t, err, compiler.ErrMalformedResult)
	assert.Contains(t, err.Error(), "X.sol:X")
}

func TestFlattenABIMissing(t *testing.T) {
	r := &compiler.CompilationResult{Contracts: map[string]map[string]compiler.ContractOutput{
		"X.sol": {"X": {}},
	}}
	_, err := compiler.Flatten(r)
	assert.ErrorIs(t, err, compiler.ErrMalformedResult)
}

func TestFlattenABIUnknownEntryType(t *testing.T) {
	r := result(map[string]map[string]string{"X.sol": {"X": `[{"type":"banana","name":"x"}]`}})
	_, err := compiler.Flatten(r)
	assert.ErrorIs(t, err, compiler.ErrMalformedResult)
}

func TestFlattenPassesUnusualParameterTypesThrough(t *testing.T) {
	entry := `{"type":"function","name":"rate","inputs":[{"name":"r","type":"fixed128x18"}],"outputs":[]}`
	r := result(map[string]map[string]string{"F.sol": {"F": "[" + entry + "]"}})

	m, err := compiler.Flatten(r)
	require.NoError(t, err)
	require.Len(t, m["F"].ABI, 1)
	assert.JSONEq(t, entry, string(m["F"].ABI[0]))
}

func TestFlattenABIEntryNotObject(t *testing.T) {
	r := result(map[string]map[string]string{"X.sol": {"X": `[42]`}})
	_, err := compiler.Flatten(r)
	assert.ErrorIs(t, err, compiler.ErrMalformedResult)
}

// ---------------------------------------------------------------------------
// ParseEvent
// ---------------------------------------------------------------------------

func TestParseEventSolcOutput(t *testing.T) {
	data := []byte(`{
		"sources": {"Token.sol": {"id": 0}},
		"contracts": {"Token.sol": {"Token": {"abi": ` + abiTransfer + `, "evm": {"bytecode": {"object": "6080"}}}}}
	}`)

	ev, err := compiler.ParseEvent("out.json", data)
	require.NoError(t, err)
	require.NotNil(t, ev.Result)
	assert.Equal(t, "out.json", ev.File)
	assert.Contains(t, ev.Sources, "Token.sol")
	assert.Contains(t, ev.Result.Contracts["Token.sol"], "Token")
}

func TestParseEventBuildInfo(t *testing.T) {
	data := []byte(`{
		"solcVersion": "0.8.24",
		"input": {"language": "Solidity"},
		"output": {"contracts": {"G.sol": {"Greeter": {"abi": ` + abiGreeter + `}}}}
	}`)

	ev, err := compiler.ParseEvent("build-info/abc.json", data)
	require.NoError(t, err)
	require.NotNil(t, ev.Result)
	assert.Equal(t, "0.8.24", ev.Version)

	m, err := compiler.Flatten(ev.Result)
	require.NoError(t, err)
	assert.Contains(t, m, "Greeter")
}

func TestParseEventFailedCompilationHasNilResult(t *testing.T) {
	data := []byte(`{"errors":[{"severity":"error","type":"ParserError","formattedMessage":"ParserError: Expected ';'"}]}`)

	ev, err := compiler.ParseEvent("out.json", data)
	require.NoError(t, err)
	assert.Nil(t, ev.Result)
	assert.Contains(t, compiler.Diagnostics(ev.Errors), "Expected ';'")
}

func TestParseEventWarningsOnlyKeepsResult(t *testing.T) {
	data := []byte(`{"errors":[{"severity":"warning","message":"unused"}],"contracts":{"A.sol":{"A":{"abi":[]}}}}`)

	ev, err := compiler.ParseEvent("out.json", data)
	require.NoError(t, err)
	require.NotNil(t, ev.Result)
	assert.Empty(t, compiler.Diagnostics(ev.Errors))
}

func TestParseEventMalformed(t *testing.T) {
	for name, data := range map[string]string{
		"empty":         ``,
		"array":         `[1,2]`,
		"no contracts":  `{"sources":{}}`,
		"contracts str": `{"contracts":"nope"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := compiler.ParseEvent("bad.json", []byte(data))
			assert.ErrorIs(t, err, compiler.ErrMalformedResult)
		})
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestInterfaceKinds(t *testing.T) {
	m, err := compiler.Flatten(result(map[string]map[string]string{
		"G.sol": {"Greeter": abiGreeter},
	}))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"function": 1, "event": 1}, m["Greeter"].Kinds())
}
