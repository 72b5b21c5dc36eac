package avm2

import "fmt"

// ItemInfo is a single key/value pair within a MetadataInfo (§3).
type ItemInfo struct {
	Key   uint32
	Value uint32
}

func readItemInfo(r *Reader) (ItemInfo, error) {
	key, err := r.U30()
	if err != nil {
		return ItemInfo{}, err
	}
	value, err := r.U30()
	if err != nil {
		return ItemInfo{}, err
	}
	return ItemInfo{Key: key, Value: value}, nil
}

// MetadataInfo is a named bag of key/value string-table references attached
// to a trait via TraitInfo.Metadata (§3).
type MetadataInfo struct {
	Name  uint32
	Items []ItemInfo
}

func readMetadataInfo(r *Reader) (MetadataInfo, error) {
	name, err := r.U30()
	if err != nil {
		return MetadataInfo{}, fmt.Errorf("name: %w", err)
	}
	items, err := readList(r, readItemInfo)
	if err != nil {
		return MetadataInfo{}, fmt.Errorf("items: %w", err)
	}
	return MetadataInfo{Name: name, Items: items}, nil
}
