package domain

import "time"

// Core domain models used internally. The backend JSON shape lives in
// internal/ingest and is converted into these at the ingestion boundary.

type Tier string

const (
	Tier1 Tier = "TIER_1"
	Tier3 Tier = "TIER_3"
)

func (t Tier) Valid() bool { return t == Tier1 || t == Tier3 }

type Company struct {
	ID     string
	Name   string
	Tier   Tier
	Brands []Brand
	SAT    []CategoryScore
	IVC    []CategoryScore
	IEG    []CategoryScore
}

type Brand struct {
	ID           string
	Name         string
	CompanyID    string
	ProductType  ProductType
	ProductTests []ProductTest
}

type ProductType struct {
	Name      string
	Aflatoxin bool
}

type ProductTest struct {
	ID                   string
	SampleProductionDate time.Time
	Fortification        Fortification
	AflatoxinScore       *float64
}

type Fortification struct {
	Score                    *float64
	OverallKMFIWeightedScore *float64
}

// CategoryScore is the single shape SAT, IVC and IEG scores are normalized
// into. Raw is nil when the category has not been scored yet.
type CategoryScore struct {
	CategoryID   string
	CategoryName string
	Raw          *float64
	Max          float64
}

type Cycle struct {
	ID         string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	PreviousID *string
	Locked     bool
}
