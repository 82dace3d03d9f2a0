package model

import (
	"time"
)

// DocumentType is the identity document category of the reserving customer.
type DocumentType string

const (
	DocumentTypeCC DocumentType = "CC"
	DocumentTypeCE DocumentType = "CE"
	DocumentTypeTI DocumentType = "TI"
	DocumentTypePP DocumentType = "PP"
)

type Reservation struct {
	ID              int64        `json:"id" db:"id"`
	Name            string       `json:"name" db:"name"`
	DocumentType    DocumentType `json:"documentType" db:"document_type"`
	DocumentNumber  string       `json:"documentNumber" db:"document_number"`
	Guests          int          `json:"guests" db:"guests"`
	Observations    string       `json:"observations,omitempty" db:"observations"`
	ReservationDate time.Time    `json:"reservationDate" db:"reservation_date"`
}

// ReservationRequest carries the wire fields of a create or full-replacement
// update. The party-size cap is not a validate tag: it is an admission rule
// checked only on create.
type ReservationRequest struct {
	Name            string       `json:"name" validate:"required,max=60"`
	DocumentType    DocumentType `json:"documentType" validate:"required,oneof=CC CE TI PP"`
	DocumentNumber  string       `json:"documentNumber" validate:"required,max=20"`
	Guests          int          `json:"guests" validate:"required,min=1"`
	Observations    string       `json:"observations" validate:"omitempty,max=255"`
	ReservationDate time.Time    `json:"reservationDate" validate:"required"`
}

// Date marshals as a calendar date without a time component.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	t, err := time.Parse(`"`+time.DateOnly+`"`, string(data))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
