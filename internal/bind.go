package internal

import (
	"errors"
	"io"
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// bindJSON decodes Bind targets. Form and query values arrive as strings, so
// numeric and boolean fields also accept their quoted form and string fields
// accept bare numbers. The leniency stays local to this config.
var bindJSON = func() jsoniter.API {
	api := jsoniter.Config{
		UseNumber:              true,
		EscapeHTML:             true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&lenientScalars{})
	return api
}()

type lenientScalars struct {
	jsoniter.DummyExtension
}

func (e *lenientScalars) DecorateDecoder(typ reflect2.Type, dec jsoniter.ValDecoder) jsoniter.ValDecoder {
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return &quotedScalarDecoder{next: dec}
	case reflect.Bool:
		return &quotedScalarDecoder{next: dec, boolean: true}
	case reflect.String:
		return &numberStringDecoder{next: dec}
	}
	return dec
}

// quotedScalarDecoder unquotes a string before handing it to next.
// An empty string leaves the field at its zero value.
type quotedScalarDecoder struct {
	next    jsoniter.ValDecoder
	boolean bool
}

func (d *quotedScalarDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.WhatIsNext() != jsoniter.StringValue {
		d.next.Decode(ptr, iter)
		return
	}

	s := strings.TrimSpace(iter.ReadString())
	if s == "" {
		return
	}
	if d.boolean {
		b, err := strconv.ParseBool(s)
		if err != nil {
			iter.ReportError("bind", "invalid boolean "+strconv.Quote(s))
			return
		}
		s = strconv.FormatBool(b)
	}

	sub := iter.Pool().BorrowIterator([]byte(s))
	defer iter.Pool().ReturnIterator(sub)
	d.next.Decode(ptr, sub)
	if sub.Error != nil && !errors.Is(sub.Error, io.EOF) {
		iter.ReportError("bind", sub.Error.Error())
	}
}

// numberStringDecoder stores a bare JSON number as its literal text.
type numberStringDecoder struct {
	next jsoniter.ValDecoder
}

func (d *numberStringDecoder) Decode(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	if iter.WhatIsNext() == jsoniter.NumberValue {
		*(*string)(ptr) = string(iter.ReadNumber())
		return
	}
	d.next.Decode(ptr, iter)
}
