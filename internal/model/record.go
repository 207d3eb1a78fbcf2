package model

import (
	"strconv"
	"time"
)

// RawItem is one decoded feed item before normalization. Feed clients
// guarantee a non-empty string "id" key; everything else is best effort.
type RawItem map[string]any

// Record is one product's full attribute set for a given feed pull.
// The field set is the fixed recognized schema: unrecognized feed fields are
// dropped during normalization, missing recognized fields keep their zero
// default. JSON tags carry the upstream feed names, which are also the
// column names in the relational store backend.
type Record struct {
	ID                    string  `json:"id" db:"id"`
	Brand                 string  `json:"brand" db:"brand"`
	Active                bool    `json:"active" db:"active"`
	DisplayName           string  `json:"displayName" db:"displayName"`
	PrimaryFullImageURL   string  `json:"primaryFullImageURL" db:"primaryFullImageURL"`
	HighlyAllocated       string  `json:"b2c_highlyAllocatedProduct" db:"b2c_highlyAllocatedProduct"`
	InventoryAvailability string  `json:"b2c_inventoryAvailability" db:"b2c_inventoryAvailability"`
	Volume                string  `json:"x_volume" db:"x_volume"`
	ListPrice             float64 `json:"listPrice" db:"listPrice"`
	OnlineOnly            bool    `json:"onlineOnly" db:"onlineOnly"`
	CreationDate          string  `json:"creationDate" db:"creationDate"`
	OnlineAvailable       string  `json:"b2c_onlineAvailable" db:"b2c_onlineAvailable"`
	OnlineExclusive       string  `json:"b2c_onlineExclusive" db:"b2c_onlineExclusive"`
	LastModifiedDate      string  `json:"lastModifiedDate" db:"lastModifiedDate"`
	Size                  string  `json:"b2c_size" db:"b2c_size"`
	Proof                 string  `json:"b2c_proof" db:"b2c_proof"`
	FuturesProduct        string  `json:"b2c_futuresProduct" db:"b2c_futuresProduct"`
	ComingSoon            string  `json:"b2c_comingSoon" db:"b2c_comingSoon"`
	RepositoryID          string  `json:"repositoryId" db:"repositoryId"`
	Type                  string  `json:"b2c_type" db:"b2c_type"`

	// Stock-level attributes, merged in from the inventory feed. They keep
	// their zero defaults when no stock entry matches the product id.
	StockStatus           string `json:"stockStatus" db:"stockStatus"`
	InStockQuantity       int    `json:"inStockQuantity" db:"inStockQuantity"`
	OrderableQuantity     int    `json:"orderableQuantity" db:"orderableQuantity"`
	PreOrderableQuantity  int    `json:"preOrderableQuantity" db:"preOrderableQuantity"`
	BackOrderableQuantity int    `json:"backOrderableQuantity" db:"backOrderableQuantity"`
	AvailabilityDate      string `json:"availabilityDate" db:"availabilityDate"`
	LocationID            string `json:"locationId" db:"locationId"`

	// ProductURL is synthesized from the base URL and the product id; it is
	// never present in the feed.
	ProductURL string `json:"productUrl" db:"productUrl"`
}

// StoredRecord is a Record as held by the record store. LastUpdated is owned
// by the store: refreshed on every write, never set by callers.
type StoredRecord struct {
	Record
	LastUpdated time.Time `json:"lastUpdated" db:"last_updated"`
}

// SchemaField describes one attribute of the recognized schema: its feed
// name and an accessor returning the value in canonical string form.
type SchemaField struct {
	Name string
	Get  func(*Record) string
}

// Schema is the ordered recognized attribute set, id first. Stored values
// are compared field by field via their canonical string forms, so the
// accessors define equality for change detection.
var Schema = []SchemaField{
	{"id", func(r *Record) string { return r.ID }},
	{"brand", func(r *Record) string { return r.Brand }},
	{"active", func(r *Record) string { return strconv.FormatBool(r.Active) }},
	{"displayName", func(r *Record) string { return r.DisplayName }},
	{"primaryFullImageURL", func(r *Record) string { return r.PrimaryFullImageURL }},
	{"b2c_highlyAllocatedProduct", func(r *Record) string { return r.HighlyAllocated }},
	{"b2c_inventoryAvailability", func(r *Record) string { return r.InventoryAvailability }},
	{"x_volume", func(r *Record) string { return r.Volume }},
	{"listPrice", func(r *Record) string { return strconv.FormatFloat(r.ListPrice, 'f', -1, 64) }},
	{"onlineOnly", func(r *Record) string { return strconv.FormatBool(r.OnlineOnly) }},
	{"creationDate", func(r *Record) string { return r.CreationDate }},
	{"b2c_onlineAvailable", func(r *Record) string { return r.OnlineAvailable }},
	{"b2c_onlineExclusive", func(r *Record) string { return r.OnlineExclusive }},
	{"lastModifiedDate", func(r *Record) string { return r.LastModifiedDate }},
	{"b2c_size", func(r *Record) string { return r.Size }},
	{"b2c_proof", func(r *Record) string { return r.Proof }},
	{"b2c_futuresProduct", func(r *Record) string { return r.FuturesProduct }},
	{"b2c_comingSoon", func(r *Record) string { return r.ComingSoon }},
	{"repositoryId", func(r *Record) string { return r.RepositoryID }},
	{"b2c_type", func(r *Record) string { return r.Type }},
	{"stockStatus", func(r *Record) string { return r.StockStatus }},
	{"inStockQuantity", func(r *Record) string { return strconv.Itoa(r.InStockQuantity) }},
	{"orderableQuantity", func(r *Record) string { return strconv.Itoa(r.OrderableQuantity) }},
	{"preOrderableQuantity", func(r *Record) string { return strconv.Itoa(r.PreOrderableQuantity) }},
	{"backOrderableQuantity", func(r *Record) string { return strconv.Itoa(r.BackOrderableQuantity) }},
	{"availabilityDate", func(r *Record) string { return r.AvailabilityDate }},
	{"locationId", func(r *Record) string { return r.LocationID }},
	{"productUrl", func(r *Record) string { return r.ProductURL }},
}

// StockFieldNames lists the schema keys owned by the inventory feed. The
// batch driver only merges these keys from a stock entry into the working
// record; catalog keys in a stock payload are ignored.
var StockFieldNames = []string{
	"stockStatus",
	"inStockQuantity",
	"orderableQuantity",
	"preOrderableQuantity",
	"backOrderableQuantity",
	"availabilityDate",
	"locationId",
}
