package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// GetIntList returns the list of integers stored under the key or an empty
// list if there is none.
func GetIntList(ctx storage.Context, key any) []int {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).([]int)
	}

	return []int{}
}

// AppendToIntList adds v to the end of the list stored under the key.
func AppendToIntList(ctx storage.Context, key any, v int) {
	list := GetIntList(ctx, key)
	list = append(list, v)
	SetSerialized(ctx, key, list)
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// NextID increments the counter stored under the key and returns the new
// value. Counters start from zero, so the first identifier is 1.
func NextID(ctx storage.Context, key any) int {
	id := 1
	v := storage.Get(ctx, key)
	if v != nil {
		id = v.(int) + 1
	}
	storage.Put(ctx, key, id)
	return id
}
