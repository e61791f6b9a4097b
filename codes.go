package seek

import "github.com/poiesic/seek/engine"

// sortTypes maps every sort key and order to the engine's native sort code.
var sortTypes = map[SortKey][2]engine.SortType{
	SortName:         {engine.SortNameAscending, engine.SortNameDescending},
	SortPath:         {engine.SortPathAscending, engine.SortPathDescending},
	SortSize:         {engine.SortSizeAscending, engine.SortSizeDescending},
	SortExtension:    {engine.SortExtensionAscending, engine.SortExtensionDescending},
	SortTypeName:     {engine.SortTypeNameAscending, engine.SortTypeNameDescending},
	SortDateCreated:  {engine.SortDateCreatedAscending, engine.SortDateCreatedDescending},
	SortDateModified: {engine.SortDateModifiedAscending, engine.SortDateModifiedDescending},
	SortDateAccessed: {engine.SortDateAccessedAscending, engine.SortDateAccessedDescending},
	SortAttributes:   {engine.SortAttributesAscending, engine.SortAttributesDescending},
}

// metadataRequests maps each metadata kind to its native request flag.
var metadataRequests = map[Metadata]engine.RequestFlags{
	MetadataSize:         engine.RequestSize,
	MetadataDateCreated:  engine.RequestDateCreated,
	MetadataDateModified: engine.RequestDateModified,
	MetadataDateAccessed: engine.RequestDateAccessed,
	MetadataAttributes:   engine.RequestAttributes,
}

// nativeSort returns the engine sort code for key and order. Unknown keys
// fall back to name order.
func nativeSort(key SortKey, order SortOrder) engine.SortType {
	pair, ok := sortTypes[key]
	if !ok {
		pair = sortTypes[SortName]
	}
	if order == Descending {
		return pair[1]
	}
	return pair[0]
}

// nativeRequestFlags returns the engine request flags for m. The full path is
// always requested.
func nativeRequestFlags(m Metadata) engine.RequestFlags {
	flags := engine.RequestFullPathAndFileName
	for kind, flag := range metadataRequests {
		if m.Has(kind) {
			flags |= flag
		}
	}
	return flags
}
