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

package csn

import (
	"fmt"
	"strconv"

	"github.com/dolthub/vitess/go/sqltypes"
	querypb "github.com/dolthub/vitess/go/vt/proto/query"
)

// Value is a CSN literal: the {val: ...} wrapper that appears in path
// filters (ref_where), default values, and enum entries. It carries both
// the raw Go value and the CDS-level type name it was typed as, the way
// engine.go's bindingsToExprs pairs a sqltypes.Value with a sql.Type before
// it becomes an expression.Literal.
type Value struct {
	// CdsType is the CDS builtin type name, e.g. "cds.Integer", "cds.String",
	// "cds.UUID".
	CdsType string
	Raw     interface{}
}

// NewIntValue wraps an integer literal as the given CDS type (normally
// cds.Integer or cds.Integer64).
func NewIntValue(n int64, cdsType string) Value {
	return Value{CdsType: cdsType, Raw: n}
}

// NewStringValue wraps a string literal (cds.String/cds.LargeString).
func NewStringValue(s string, cdsType string) Value {
	return Value{CdsType: cdsType, Raw: s}
}

// NewBoolValue wraps a boolean literal.
func NewBoolValue(b bool) Value {
	return Value{CdsType: "cds.Boolean", Raw: b}
}

// FromWireBindVariable converts a vitess wire bind variable into a typed CSN
// Value, the same dispatch-by-querypb.Type shape engine.go's
// bindingsToExprs uses to turn a map[string]*querypb.BindVariable into
// map[string]sql.Expression. Used when the ingestor or resolver needs to
// interpret a parameter supplied out-of-band (an editor-probe substitution,
// or a $parameters binding supplied to Recompile).
func FromWireBindVariable(bv *querypb.BindVariable) (Value, error) {
	v, err := sqltypes.NewValue(bv.Type, bv.Value)
	if err != nil {
		return Value{}, err
	}

	switch {
	case v.Type() == sqltypes.Null:
		return Value{CdsType: "cds.String", Raw: nil}, nil
	case sqltypes.IsSigned(v.Type()):
		n, err := strconv.ParseInt(string(v.ToBytes()), 0, 64)
		if err != nil {
			return Value{}, err
		}
		return NewIntValue(n, "cds.Integer64"), nil
	case sqltypes.IsUnsigned(v.Type()):
		n, err := strconv.ParseUint(string(v.ToBytes()), 0, 64)
		if err != nil {
			return Value{}, err
		}
		return Value{CdsType: "cds.UInt64", Raw: n}, nil
	case sqltypes.IsFloat(v.Type()):
		f, err := strconv.ParseFloat(string(v.ToBytes()), 64)
		if err != nil {
			return Value{}, err
		}
		return Value{CdsType: "cds.Double", Raw: f}, nil
	case v.Type() == sqltypes.Decimal:
		return Value{CdsType: "cds.Decimal", Raw: string(v.ToBytes())}, nil
	case v.Type() == sqltypes.Text || v.Type() == sqltypes.VarChar || v.Type() == sqltypes.Char:
		return NewStringValue(string(v.ToBytes()), "cds.String"), nil
	case v.Type() == sqltypes.Date:
		return Value{CdsType: "cds.Date", Raw: string(v.ToBytes())}, nil
	case v.Type() == sqltypes.Datetime || v.Type() == sqltypes.Timestamp:
		return Value{CdsType: "cds.Timestamp", Raw: string(v.ToBytes())}, nil
	case v.Type() == sqltypes.Time:
		return Value{CdsType: "cds.Time", Raw: string(v.ToBytes())}, nil
	default:
		return Value{}, fmt.Errorf("unsupported wire type for CSN literal: %s", v.Type().String())
	}
}

func (v Value) String() string {
	return fmt.Sprintf("%v", v.Raw)
}
