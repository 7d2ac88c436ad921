package http

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/partdex"
)

// strippedExtraKeys are record fields that are either promoted to typed
// columns or are transient presentation data. Everything else stays in the
// extra bag verbatim, minus null values.
var strippedExtraKeys = []string{
	"componentCode",
	"firstSortName",
	"secondSortName",
	"componentModelEn",
	"componentSpecificationEn",
	"componentBrandEn",
	"componentLibraryType",
	"preferredComponentFlag",
	"describe",
	"dataManualUrl",
	"componentPriceList",
	"imageList",
	"componentPrices",
	"buyComponentPrices",
}

// componentRecord is the typed subset of one search result entry.
type componentRecord struct {
	ComponentCode            string `json:"componentCode"`
	FirstSortName            string `json:"firstSortName"`
	SecondSortName           string `json:"secondSortName"`
	ComponentModelEn         string `json:"componentModelEn"`
	ComponentSpecificationEn string `json:"componentSpecificationEn"`
	ComponentBrandEn         string `json:"componentBrandEn"`
	ComponentLibraryType     string `json:"componentLibraryType"`
	PreferredComponentFlag   bool   `json:"preferredComponentFlag"`
	Describe                 string `json:"describe"`
	DataManualURL            string `json:"dataManualUrl"`
	URLSuffix                string `json:"urlSuffix"`
	StockCount               int    `json:"stockCount"`
	ComponentPrices          []struct {
		StartNumber  int         `json:"startNumber"`
		EndNumber    int         `json:"endNumber"`
		ProductPrice json.Number `json:"productPrice"`
	} `json:"componentPrices"`
}

// priceBreak is the normalized quantity-break shape stored in the cache.
type priceBreak struct {
	QFrom int         `json:"qFrom"`
	QTo   *int        `json:"qTo"`
	Price json.Number `json:"price"`
}

// componentFromRecord normalizes one raw search result entry into a cache
// component. The category endpoint and the search endpoint disagree about
// which sort name is primary: on search results secondSortName holds the
// primary category and firstSortName the subcategory.
func componentFromRecord(raw json.RawMessage, now int64) (*partdex.Component, error) {
	var rec componentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, partdex.Errorf(partdex.EINVALID, "malformed component record: %v", err)
	}

	id, err := partdex.ParseLCSC(rec.ComponentCode)
	if err != nil {
		return nil, err
	}

	var extra partdex.ExtraBag
	if err := json.Unmarshal(raw, &extra); err != nil {
		return nil, partdex.Errorf(partdex.EINVALID, "malformed component record: %v", err)
	}
	for _, key := range strippedExtraKeys {
		extra.Delete(key)
	}
	kept := extra[:0]
	for _, field := range extra {
		if string(field.Value) != "null" {
			kept = append(kept, field)
		}
	}
	extra = kept
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}

	breaks := make([]priceBreak, 0, len(rec.ComponentPrices))
	for _, p := range rec.ComponentPrices {
		b := priceBreak{QFrom: p.StartNumber, Price: p.ProductPrice}
		if p.EndNumber != -1 {
			end := p.EndNumber
			b.QTo = &end
		}
		breaks = append(breaks, b)
	}
	priceJSON, err := json.Marshal(breaks)
	if err != nil {
		return nil, err
	}

	datasheet := rec.DataManualURL
	if datasheet == "" && rec.URLSuffix != "" {
		datasheet = fmt.Sprintf("https://jlcpcb.com/partdetail/%s", rec.URLSuffix)
	}

	return &partdex.Component{
		ID:           id,
		Category:     rec.SecondSortName,
		Subcategory:  rec.FirstSortName,
		MFRPart:      rec.ComponentModelEn,
		Package:      rec.ComponentSpecificationEn,
		Manufacturer: rec.ComponentBrandEn,
		Basic:        rec.ComponentLibraryType == "base",
		Preferred:    rec.PreferredComponentFlag,
		Description:  rec.Describe,
		Datasheet:    datasheet,
		Stock:        rec.StockCount,
		Price:        string(priceJSON),
		Extra:        string(extraJSON),
		LastUpdate:   now,
	}, nil
}
