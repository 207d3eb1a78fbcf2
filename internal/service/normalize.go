package service

import (
	"strconv"
	"strings"

	"shelfwatch/internal/model"
)

// Normalize maps a raw feed item onto the recognized schema. Unrecognized
// keys are dropped, missing keys keep their zero default, and value types
// are coerced to the canonical form the store and classifier operate on.
// It also prefixes relative image links with the site base URL (exactly
// once) and synthesizes the product detail URL. Pure: no store access, no
// mutation of the input map.
func Normalize(raw model.RawItem, baseURL string) model.Record {
	rec := model.Record{
		ID:                    asString(raw["id"]),
		Brand:                 asString(raw["brand"]),
		Active:                asBool(raw["active"]),
		DisplayName:           asString(raw["displayName"]),
		PrimaryFullImageURL:   asString(raw["primaryFullImageURL"]),
		HighlyAllocated:       asString(raw["b2c_highlyAllocatedProduct"]),
		InventoryAvailability: asString(raw["b2c_inventoryAvailability"]),
		Volume:                asString(raw["x_volume"]),
		ListPrice:             asFloat(raw["listPrice"]),
		OnlineOnly:            asBool(raw["onlineOnly"]),
		CreationDate:          asString(raw["creationDate"]),
		OnlineAvailable:       asString(raw["b2c_onlineAvailable"]),
		OnlineExclusive:       asString(raw["b2c_onlineExclusive"]),
		LastModifiedDate:      asString(raw["lastModifiedDate"]),
		Size:                  asString(raw["b2c_size"]),
		Proof:                 asString(raw["b2c_proof"]),
		FuturesProduct:        asString(raw["b2c_futuresProduct"]),
		ComingSoon:            asString(raw["b2c_comingSoon"]),
		RepositoryID:          asString(raw["repositoryId"]),
		Type:                  asString(raw["b2c_type"]),
		StockStatus:           asString(raw["stockStatus"]),
		InStockQuantity:       asInt(raw["inStockQuantity"]),
		OrderableQuantity:     asInt(raw["orderableQuantity"]),
		PreOrderableQuantity:  asInt(raw["preOrderableQuantity"]),
		BackOrderableQuantity: asInt(raw["backOrderableQuantity"]),
		AvailabilityDate:      asString(raw["availabilityDate"]),
		LocationID:            asString(raw["locationId"]),
	}

	if rec.PrimaryFullImageURL != "" && !strings.HasPrefix(rec.PrimaryFullImageURL, baseURL) {
		rec.PrimaryFullImageURL = baseURL + rec.PrimaryFullImageURL
	}
	if rec.ID != "" {
		rec.ProductURL = baseURL + "/product/" + rec.ID
	}

	return rec
}

// asString coerces a decoded JSON value to its canonical string form. The
// feed has switched numeric and boolean representations across pulls, so
// storing one canonical form keeps those flips from reading as changes.
func asString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return 0
}

func asInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return 0
}

func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val == "true" || val == "True" || val == "1"
	case float64:
		return val != 0
	}
	return false
}
