// Copyright 2024 The cds-pg-sub004 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package csnjson decodes a plain-CSN JSON document straight into
// ingest.RawSource, without going through CDL source at all (spec.md §1
// treats CSN as an input shape ingest already understands natively; the
// lexer/grammar that would be needed to accept CDL text is the thing that's
// out of scope, not CSN-as-input). This is the one Parser cdslc can
// reasonably ship itself -- decoding JSON needs no grammar, just a field
// mapping -- so cmd/cdslc wires it in as the handler for Options.FallbackParser
// == "csn".
//
// encoding/json discards source positions, so every node this Parser
// produces carries a zero csn.Location; cmd/cdsprobe against a CSN-JSON
// project can still complete/find/lint by name, but position-based lookups
// (refAt's span containment) never match. A position-preserving decoder
// would need its own JSON tokenizer and is out of scope here.
package csnjson

import (
	"encoding/json"
	"fmt"

	"github.com/ehb93/cds-pg-sub004/csn"
	"github.com/ehb93/cds-pg-sub004/ingest"
)

// Parser implements cdsc.Parser over plain-CSN JSON documents.
type Parser struct{}

// Parse decodes content as a CSN JSON document.
func (Parser) Parse(path string, content []byte) (*ingest.RawSource, error) {
	var doc jsonDoc
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("csnjson: %s: %w", path, err)
	}
	return &ingest.RawSource{CSN: doc.toRawCSNDoc()}, nil
}

type jsonDoc struct {
	Namespace   string                     `json:"namespace"`
	Definitions map[string]json.RawMessage `json:"definitions"`
	I18n        map[string]map[string]string `json:"i18n"`
}

func (d jsonDoc) toRawCSNDoc() *ingest.RawCSNDoc {
	defs := csn.NewDict[*ingest.RawArtifact]()
	for name, raw := range d.Definitions {
		art, err := decodeArtifact(raw)
		if err != nil {
			continue
		}
		defs.Set(name, art)
	}
	return &ingest.RawCSNDoc{Definitions: defs, Namespace: d.Namespace, I18n: d.I18n}
}

type jsonArtifact struct {
	Kind        string                     `json:"kind"`
	Elements    map[string]json.RawMessage `json:"elements"`
	Actions     map[string]json.RawMessage `json:"actions"`
	Params      map[string]json.RawMessage `json:"params"`
	Enum        map[string]json.RawMessage `json:"enum"`
	Type        string                     `json:"type"`
	Target      string                     `json:"target"`
	Cardinality *jsonCardinality           `json:"cardinality"`
	Key         bool                       `json:"key"`
	NotNull     bool                       `json:"notNull"`
	Virtual     bool                       `json:"virtual"`
	Masked      bool                       `json:"masked"`
	Localized   bool                       `json:"localized"`
	Length      int                        `json:"length"`
	Default     json.RawMessage            `json:"default"`
	ForeignKeys []string                   `json:"keys"`
	Includes    []string                   `json:"includes"`
}

type jsonCardinality struct {
	Max interface{} `json:"max"`
}

// decodeArtifact decodes one definitions[name] entry. Annotations are
// collected from any top-level field prefixed "@" rather than a nested
// object, matching real CSN's flat annotation shape.
func decodeArtifact(raw json.RawMessage) (*ingest.RawArtifact, error) {
	var ja jsonArtifact
	if err := json.Unmarshal(raw, &ja); err != nil {
		return nil, err
	}

	var flat map[string]json.RawMessage
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, err
	}

	art := &ingest.RawArtifact{
		Kind:        kindFromString(ja.Kind),
		Key:         ja.Key,
		NotNull:     ja.NotNull,
		Virtual:     ja.Virtual,
		Masked:      ja.Masked,
		Localized:   ja.Localized,
		Length:      ja.Length,
		ForeignKeys: ja.ForeignKeys,
	}

	if ja.Type != "" {
		art.Type = refOf(ja.Type)
	}
	if ja.Target != "" {
		art.Target = refOf(ja.Target)
	}
	for _, inc := range ja.Includes {
		art.Includes = append(art.Includes, refOf(inc))
	}
	if ja.Cardinality != nil {
		art.AssocKind = csn.Association
		art.Cardinality = decodeCardinality(*ja.Cardinality)
	}
	if ja.Default != nil {
		if v, ok := decodeValue(ja.Default); ok {
			art.Default = &v
		}
	}

	art.Elements = decodeMembers(ja.Elements, ingest.HintElement)
	art.Actions = decodeMembers(ja.Actions, ingest.HintAction)
	art.Params = decodeMembers(ja.Params, ingest.HintParam)
	art.Enum = decodeMembers(ja.Enum, ingest.HintEnumValue)

	annos := decodeAnnotations(flat)
	if len(annos) > 0 {
		art.Annotations = annos
	}

	return art, nil
}

func decodeMembers(raw map[string]json.RawMessage, defaultKind ingest.ArtifactKindHint) *csn.Dict[*ingest.RawArtifact] {
	if raw == nil {
		return nil
	}
	out := csn.NewDict[*ingest.RawArtifact]()
	for name, r := range raw {
		mem, err := decodeArtifact(r)
		if err != nil {
			continue
		}
		if mem.Kind == ingest.HintUnknown {
			mem.Kind = defaultKind
		}
		out.Set(name, mem)
	}
	return out
}

// decodeAnnotations collects every field whose JSON key starts with "@"
// into a csn.Value map, the way CSN represents annotations as flat
// "@requires"/"@restrict"-prefixed sibling fields rather than a nested
// object.
func decodeAnnotations(flat map[string]json.RawMessage) map[string]csn.Value {
	out := make(map[string]csn.Value)
	for key, raw := range flat {
		if len(key) == 0 || key[0] != '@' {
			continue
		}
		if v, ok := decodeValue(raw); ok {
			out[key] = v
		}
	}
	return out
}

func decodeValue(raw json.RawMessage) (csn.Value, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return csn.NewStringValue(s, "cds.String"), true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return csn.NewBoolValue(b), true
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return csn.NewIntValue(n, "cds.Integer"), true
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		values := make([]csn.Value, 0, len(list))
		for _, item := range list {
			if v, ok := decodeValue(item); ok {
				values = append(values, v)
			}
		}
		return csn.Value{CdsType: "cds.Array", Raw: values}, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		fields := make(map[string]csn.Value, len(obj))
		for k, item := range obj {
			if v, ok := decodeValue(item); ok {
				fields[k] = v
			}
		}
		return csn.Value{CdsType: "cds.Object", Raw: fields}, true
	}
	return csn.Value{}, false
}

func decodeCardinality(c jsonCardinality) csn.Cardinality {
	switch v := c.Max.(type) {
	case string:
		return csn.Cardinality{Max: 0} // "*"
	case float64:
		return csn.Cardinality{Max: int(v)}
	default:
		return csn.Cardinality{Max: 1}
	}
}

func refOf(dotted string) *ingest.RawRef {
	return &ingest.RawRef{Items: []csn.PathItem{{ID: dotted}}}
}

func kindFromString(kind string) ingest.ArtifactKindHint {
	switch kind {
	case "entity":
		return ingest.HintEntity
	case "type":
		return ingest.HintType
	case "aspect":
		return ingest.HintAspect
	case "service":
		return ingest.HintService
	case "context":
		return ingest.HintContext
	case "namespace":
		return ingest.HintNamespace
	case "event":
		return ingest.HintEvent
	case "action":
		return ingest.HintAction
	case "function":
		return ingest.HintFunction
	case "annotation":
		return ingest.HintAnnotationDecl
	default:
		return ingest.HintUnknown
	}
}
