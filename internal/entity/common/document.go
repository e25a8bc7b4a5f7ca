package common

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Kind 标识 Value 中保存的数据类型。
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value 是文档字段的取值：字符串、数字、布尔、列表或嵌套映射。零值表示 null。
type Value struct {
	kind Kind
	str  string
	num  string // canonical decimal text
	flag bool
	list []Value
	doc  Document
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number wraps a float. NaN and ±Inf have no JSON form and collapse to null.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return Value{kind: KindNumber, num: formatNumber(f)}
}

// Int wraps an integer as a number.
func Int(i int) Value { return Int64(int64(i)) }

// Int64 wraps a 64-bit integer without passing through float64.
func Int64(i int64) Value { return Value{kind: KindNumber, num: strconv.FormatInt(i, 10)} }

// Uint64 wraps an unsigned 64-bit integer without passing through float64.
func Uint64(i uint64) Value { return Value{kind: KindNumber, num: strconv.FormatUint(i, 10)} }

// NumberLiteral wraps a JSON number literal. Integers keep every digit, so values
// beyond float64 precision survive intact.
func NumberLiteral(literal string) (Value, error) {
	text, err := canonicalNumber(literal)
	if err != nil {
		return Value{}, fmt.Errorf("%w: number %q: %v", ErrInvalidInput, literal, err)
	}
	return Value{kind: KindNumber, num: text}, nil
}

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// List wraps a sequence of values. A call without items yields an empty list, not null.
func List(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindList, list: out}
}

// Strings builds a list of string values.
func Strings(items ...string) Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = String(item)
	}
	return Value{kind: KindList, list: out}
}

// Map wraps a nested document.
func Map(d Document) Value {
	if d == nil {
		d = Document{}
	}
	return Value{kind: KindMap, doc: d}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber reports the number as a float64, rounding where the text needs more precision.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// NumberText returns the canonical decimal text of a number.
func (v Value) NumberText() (string, bool) {
	return v.num, v.kind == KindNumber
}

// AsInt reports the number as an int when it is integral and fits.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	i, err := strconv.Atoi(v.num)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]Value, len(v.list))
	copy(out, v.list)
	return out, true
}

// AsStrings returns the list items when every item is a string.
func (v Value) AsStrings() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	out := make([]string, 0, len(v.list))
	for _, item := range v.list {
		s, ok := item.AsString()
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func (v Value) AsMap() (Document, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.doc, true
}

// Clone returns a deep copy so that lists and nested maps are not shared.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		out := make([]Value, len(v.list))
		for i, item := range v.list {
			out[i] = item.Clone()
		}
		return Value{kind: KindList, list: out}
	case KindMap:
		return Value{kind: KindMap, doc: v.doc.Clone()}
	default:
		return v
	}
}

// Equal compares two values by their canonical encoding.
func (v Value) Equal(other Value) bool {
	var a, b bytes.Buffer
	v.encode(&a)
	other.encode(&b)
	return bytes.Equal(a.Bytes(), b.Bytes())
}

// MarshalJSON 输出规范化 JSON（映射键按字典序排列）。
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes(), nil
}

// UnmarshalJSON 接受任意 JSON 值。
func (v *Value) UnmarshalJSON(data []byte) error {
	raw, err := decodeAny(data)
	if err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) {
	switch v.kind {
	case KindString:
		writeString(buf, v.str)
	case KindNumber:
		buf.WriteString(v.num)
	case KindBool:
		if v.flag {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindList:
		buf.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	case KindMap:
		v.doc.encode(buf)
	default:
		buf.WriteString("null")
	}
}

// FromAny converts decoded JSON or plain Go values into a Value.
func FromAny(raw interface{}) (Value, error) {
	switch val := raw.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val.Clone(), nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case float64:
		return Number(val), nil
	case float32:
		return Number(float64(val)), nil
	case int:
		return Int(val), nil
	case int32:
		return Int64(int64(val)), nil
	case int64:
		return Int64(val), nil
	case uint:
		return Uint64(uint64(val)), nil
	case uint32:
		return Uint64(uint64(val)), nil
	case uint64:
		return Uint64(val), nil
	case json.Number:
		return NumberLiteral(val.String())
	case []string:
		return Strings(val...), nil
	case []Value:
		return List(val...).Clone(), nil
	case []interface{}:
		items := make([]Value, len(val))
		for i, item := range val {
			parsed, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = parsed
		}
		return Value{kind: KindList, list: items}, nil
	case Document:
		return Map(val.Clone()), nil
	case map[string]Value:
		return Map(Document(val).Clone()), nil
	case map[string]interface{}:
		doc, err := DocumentFromMap(val)
		if err != nil {
			return Value{}, err
		}
		return Map(doc), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported document value of type %T", ErrInvalidInput, raw)
	}
}

// Document 是无固定结构的键值文档，用于页面设置与查询体。
type Document map[string]Value

// DocumentFromMap converts a decoded JSON object.
func DocumentFromMap(m map[string]interface{}) (Document, error) {
	doc := make(Document, len(m))
	for key, item := range m {
		parsed, err := FromAny(item)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		doc[key] = parsed
	}
	return doc, nil
}

// ParseDocument decodes raw JSON that must be an object.
func ParseDocument(raw []byte) (Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidInput)
	}
	decoded, err := decodeAny(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: document must be a key-value mapping, got %s", ErrInvalidInput, jsonKind(decoded))
	}
	return DocumentFromMap(obj)
}

func (d Document) Get(key string) (Value, bool) {
	v, ok := d[key]
	return v, ok
}

// Keys returns the document keys in sorted order.
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for key, v := range d {
		out[key] = v.Clone()
	}
	return out
}

// Merge 浅合并：patch 中的键覆盖或新增到 d，其余键保持不变。d 必须非 nil。
func (d Document) Merge(patch Document) {
	for key, v := range patch {
		d[key] = v.Clone()
	}
}

// Canonical 返回按键排序的紧凑 JSON，相同逻辑内容总是得到相同字节。
func (d Document) Canonical() []byte {
	var buf bytes.Buffer
	d.encode(&buf)
	return buf.Bytes()
}

func (d Document) Equal(other Document) bool {
	return bytes.Equal(d.Canonical(), other.Canonical())
}

func (d Document) String() string {
	return string(d.Canonical())
}

func (d Document) encode(buf *bytes.Buffer) {
	buf.WriteByte('{')
	for i, key := range d.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(buf, key)
		buf.WriteByte(':')
		d[key].encode(buf)
	}
	buf.WriteByte('}')
}

func (d Document) MarshalJSON() ([]byte, error) {
	return d.Canonical(), nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	parsed, err := ParseDocument(data)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value 实现 driver.Valuer 接口。
func (d Document) Value() (driver.Value, error) {
	return datatypes.JSON(d.Canonical()).Value()
}

// Scan 实现 sql.Scanner 接口。
func (d *Document) Scan(value interface{}) error {
	if value == nil {
		*d = Document{}
		return nil
	}
	var raw datatypes.JSON
	if err := raw.Scan(value); err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		*d = Document{}
		return nil
	}
	parsed, err := ParseDocument(raw)
	if err != nil {
		return fmt.Errorf("scan document: %w", err)
	}
	*d = parsed
	return nil
}

// GormDataType 声明通用数据类型。
func (Document) GormDataType() string {
	return "json"
}

// GormDBDataType 为不同数据库选择 JSON 列类型（postgres 使用 JSONB）。
func (Document) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.JSON{}.GormDBDataType(db, field)
}

func decodeAny(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return raw, nil
}

func jsonKind(raw interface{}) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number:
		return "number"
	case []interface{}:
		return "list"
	default:
		return fmt.Sprintf("%T", raw)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	// Marshalling a string cannot fail.
	raw, _ := json.Marshal(s)
	buf.Write(raw)
}

// maxLiteralExponent bounds exponents handed to big.Rat so a literal like 1e999999999
// cannot force a huge allocation.
const maxLiteralExponent = 400

// canonicalNumber normalises a JSON number literal. Integral values up to 21 digits
// print as plain integers. Other values print in encoding/json float form when that
// form denotes exactly the same value, and otherwise keep the literal's digits.
func canonicalNumber(literal string) (string, error) {
	if !json.Valid([]byte(literal)) || !isNumberLiteral(literal) {
		return "", errors.New("not a JSON number")
	}
	if _, exp, hasExp := strings.Cut(strings.ToLower(literal), "e"); hasExp {
		e, err := strconv.Atoi(strings.TrimPrefix(exp, "+"))
		if err != nil || e > maxLiteralExponent || e < -maxLiteralExponent {
			return strings.ToLower(literal), nil
		}
	}

	exact, ok := new(big.Rat).SetString(literal)
	if !ok {
		return "", errors.New("not a decimal")
	}
	if exact.IsInt() {
		if digits := exact.Num().String(); len(strings.TrimPrefix(digits, "-")) <= 21 {
			return digits, nil
		}
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err == nil {
		text := formatNumber(f)
		if short, ok := new(big.Rat).SetString(text); ok && short.Cmp(exact) == 0 {
			return text, nil
		}
	}
	return strings.ToLower(literal), nil
}

func isNumberLiteral(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c == '-' || (c >= '0' && c <= '9')
}

// formatNumber follows encoding/json's float formatting.
func formatNumber(f float64) string {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}
