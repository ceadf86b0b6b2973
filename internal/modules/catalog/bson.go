package catalog

import (
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// OneOrMany decodes a field that holds either a single T or an array of T.
// Null and missing fields decode to an empty list.
type OneOrMany[T any] []T

func (o *OneOrMany[T]) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeNull, bson.TypeUndefined:
		*o = nil
	case bson.TypeArray:
		var items []T
		if err := rv.Unmarshal(&items); err != nil {
			return err
		}
		*o = items
	default:
		var item T
		if err := rv.Unmarshal(&item); err != nil {
			return err
		}
		*o = OneOrMany[T]{item}
	}
	return nil
}

// flexText reads scalars that scrapers store as strings or numbers.
// Values of any other type read as empty.
type flexText string

func (f *flexText) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeString:
		*f = flexText(rv.StringValue())
	case bson.TypeInt32:
		*f = flexText(strconv.FormatInt(int64(rv.Int32()), 10))
	case bson.TypeInt64:
		*f = flexText(strconv.FormatInt(rv.Int64(), 10))
	case bson.TypeDouble:
		*f = flexText(strconv.FormatFloat(rv.Double(), 'f', -1, 64))
	case bson.TypeDecimal128:
		*f = flexText(rv.Decimal128().String())
	default:
		*f = ""
	}
	return nil
}

func (f flexText) or(def string) string {
	if f == "" {
		return def
	}
	return string(f)
}
