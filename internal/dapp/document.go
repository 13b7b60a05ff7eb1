// Package dapp defines the document handed to the external DappBuilder.
//
// Field names and default values match what the builder reads, so the JSON
// encoding of a Document is the wire format.
package dapp

import "encoding/json"

// Default styling of a fresh builder layout.
const (
	DefaultBackground = "#1b2129"
	DefaultFont       = "Chakra Petch"
)

// Document is one submitted dapp. It is written once and never updated here;
// the builder owns every later change.
type Document struct {
	ID                string            `json:"id"`
	DappName          string            `json:"dappName"`
	WalletConnected   bool              `json:"walletConnected"`
	DappSaved         bool              `json:"dappSaved"`
	FrontendStructure FrontendStructure `json:"frontendStructure"`
	Contracts         []Contract        `json:"contracts"`
	Images            []string          `json:"images"`
	Config            Config            `json:"config"`
}

// Contract is one selected contract at the deployed address.
type Contract struct {
	Address string            `json:"address"`
	ABI     []json.RawMessage `json:"abi"`
	Name    string            `json:"name"`
}

// Config holds builder-level switches.
type Config struct {
	WindowClick bool `json:"windowClick"`
}

// FrontendStructure is the initial builder layout.
type FrontendStructure struct {
	Sections      []Section     `json:"sections"`
	Font          Font          `json:"font"`
	ConnectButton ConnectButton `json:"connectButton"`
}

// Section is a layout section holding blocks.
type Section struct {
	ID              string            `json:"id"`
	BackgroundColor string            `json:"backgroundColor"`
	Config          SectionConfig     `json:"config"`
	Blocks          []json.RawMessage `json:"blocks"`
}

// SectionConfig is the editor state of a section.
type SectionConfig struct {
	ConfigOpen          bool   `json:"configOpen"`
	ConfigActive        bool   `json:"configActive"`
	SelectedBlockConfig string `json:"selectedBlockConfig"`
}

// Font is the global font selection.
type Font struct {
	FontFamily string     `json:"fontFamily"`
	Config     FontConfig `json:"config"`
}

// FontConfig is the editor state of the font panel.
type FontConfig struct {
	ConfigOpen   bool `json:"configOpen"`
	ConfigActive bool `json:"configActive"`
}

// ConnectButton is the wallet-connect button placeholder.
type ConnectButton struct {
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

// NewFrontendStructure returns the default layout: one empty section with
// the default background, the default font and an unstyled connect button.
func NewFrontendStructure(sectionID string) FrontendStructure {
	return FrontendStructure{
		Sections: []Section{{
			ID:              sectionID,
			BackgroundColor: DefaultBackground,
			Config: SectionConfig{
				ConfigOpen:   true,
				ConfigActive: true,
			},
			Blocks: []json.RawMessage{},
		}},
		Font: Font{
			FontFamily: DefaultFont,
			Config:     FontConfig{ConfigOpen: true, ConfigActive: true},
		},
		ConnectButton: ConnectButton{},
	}
}

// NewDocument assembles a fresh, unsaved, wallet-less dapp.
func NewDocument(id, name string, layout FrontendStructure, contracts []Contract) *Document {
	if contracts == nil {
		contracts = []Contract{}
	}
	return &Document{
		ID:                id,
		DappName:          name,
		FrontendStructure: layout,
		Contracts:         contracts,
		Images:            []string{},
		Config:            Config{WindowClick: false},
	}
}

// CombinedABI concatenates the ABIs of every contract, in order.
func (d *Document) CombinedABI() []json.RawMessage {
	var out []json.RawMessage
	for _, c := range d.Contracts {
		out = append(out, c.ABI...)
	}
	return out
}
