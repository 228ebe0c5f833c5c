// Package ingest decodes company records in the backend's JSON shape and
// normalizes them into domain types before any scoring happens.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID accepts both string and numeric JSON ids; the backend emits either
// depending on the endpoint.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

type CompanyRecord struct {
	ID          ID            `json:"id" validate:"required"`
	CompanyName string        `json:"company_name"`
	Tier        string        `json:"tier" validate:"required,oneof=TIER_1 TIER_3"`
	SATScores   []ScoreRecord `json:"satScores" validate:"dive"`
	IVCScores   []ScoreRecord `json:"ivcScores" validate:"dive"`
	IEGScores   []IEGRecord   `json:"iegScores" validate:"dive"`
	Brands      []BrandRecord `json:"brands" validate:"dive"`
}

type ScoreRecord struct {
	Name  string   `json:"name" validate:"required"`
	Score *float64 `json:"score"`
}

type IEGRecord struct {
	Category CategoryRef `json:"category"`
	Value    *float64    `json:"value"`
}

type CategoryRef struct {
	Name string `json:"name" validate:"required"`
}

type BrandRecord struct {
	ID           ID                  `json:"id" validate:"required"`
	Name         string              `json:"name"`
	ProductType  ProductTypeRecord   `json:"productType"`
	ProductTests []ProductTestRecord `json:"productTests" validate:"dive"`
}

type ProductTypeRecord struct {
	Name      string `json:"name"`
	Aflatoxin bool   `json:"aflatoxin"`
}

type ProductTestRecord struct {
	ID                   ID                  `json:"id"`
	SampleProductionDate string              `json:"sample_production_date" validate:"required"`
	Fortification        FortificationRecord `json:"fortification"`
	AflatoxinScore       *float64            `json:"aflatoxinScore"`
}

type FortificationRecord struct {
	Score                    *float64 `json:"score"`
	OverallKMFIWeightedScore *float64 `json:"overallKMFIWeightedScore"`
}
