// Package models holds the pass records, sessions and search types exchanged
// with the inventory API.
package models

import (
	"fmt"
	"strings"
)

// EquipmentType classifies a line item.
type EquipmentType string

const (
	EquipmentUnit      EquipmentType = "unit"
	EquipmentModule    EquipmentType = "module"
	EquipmentPCB       EquipmentType = "PCB"
	EquipmentAccessory EquipmentType = "Accessory"
)

var EquipmentTypes = []EquipmentType{EquipmentUnit, EquipmentModule, EquipmentPCB, EquipmentAccessory}

// ParseEquipmentType matches case-insensitively and returns the canonical
// spelling used on the wire.
func ParseEquipmentType(s string) (EquipmentType, error) {
	for _, t := range EquipmentTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown equipment type %q (want unit, module, PCB or Accessory)", s)
}

type Customer struct {
	Name        string `json:"name"`
	UnitAddress string `json:"unitAddress"`
	Location    string `json:"location"`
	Phone       string `json:"phone"`
}

type LineItem struct {
	EquipmentType            EquipmentType `json:"equipmentType"`
	ItemName                 string        `json:"itemName"`
	PartNumber               string        `json:"partNumber"`
	SerialNumber             string        `json:"serialNumber"`
	DefectDetails            string        `json:"defectDetails"`
	ItemIn                   bool          `json:"itemIn"`
	ItemOut                  bool          `json:"itemOut"`
	DateOut                  Date          `json:"dateOut"`
	ItemRectificationDetails string        `json:"itemRectificationDetails"`
}

// NewLineItem returns the defaults of a freshly added row.
func NewLineItem() LineItem {
	return LineItem{EquipmentType: EquipmentUnit, ItemIn: true}
}

// PassRecord is one intake event. PassNo never changes after creation.
type PassRecord struct {
	PassNo      string     `json:"passNo"`
	DateIn      Date       `json:"dateIn"`
	ProjectName string     `json:"projectName"`
	Customer    Customer   `json:"customer"`
	Items       []LineItem `json:"items"`
	CreatedBy   string     `json:"createdBy,omitempty"`
	UpdatedBy   string     `json:"updatedBy,omitempty"`
}

// Clone returns a copy that shares no item storage with r.
func (r PassRecord) Clone() PassRecord {
	c := r
	if r.Items != nil {
		c.Items = make([]LineItem, len(r.Items))
		copy(c.Items, r.Items)
	}
	return c
}

// CreatePassRequest is the flat body of POST /items/in.
type CreatePassRequest struct {
	DateIn              Date       `json:"dateIn"`
	CustomerName        string     `json:"customerName"`
	CustomerUnitAddress string     `json:"customerUnitAddress"`
	CustomerLocation    string     `json:"customerLocation"`
	CustomerPhoneNo     string     `json:"customerPhoneNo"`
	ProjectName         string     `json:"projectName"`
	PassNo              string     `json:"passNo"`
	Items               []LineItem `json:"items"`
}

func NewCreatePassRequest(r PassRecord) CreatePassRequest {
	return CreatePassRequest{
		DateIn:              r.DateIn,
		CustomerName:        r.Customer.Name,
		CustomerUnitAddress: r.Customer.UnitAddress,
		CustomerLocation:    r.Customer.Location,
		CustomerPhoneNo:     r.Customer.Phone,
		ProjectName:         r.ProjectName,
		PassNo:              r.PassNo,
		Items:               r.Clone().Items,
	}
}

// UpdatePassRequest is the body of PUT /items/{passNo}.
type UpdatePassRequest struct {
	DateIn      Date       `json:"dateIn"`
	Customer    Customer   `json:"customer"`
	ProjectName string     `json:"projectName"`
	Items       []LineItem `json:"items"`
}

func NewUpdatePassRequest(r PassRecord) UpdatePassRequest {
	return UpdatePassRequest{
		DateIn:      r.DateIn,
		Customer:    r.Customer,
		ProjectName: r.ProjectName,
		Items:       r.Clone().Items,
	}
}

// ItemOutUpdate addresses a line item by its position in the record. The
// serial number rides along so the server can cross-check it.
type ItemOutUpdate struct {
	Index                    int    `json:"index"`
	SerialNumber             string `json:"serialNumber"`
	ItemOut                  bool   `json:"itemOut"`
	DateOut                  Date   `json:"dateOut"`
	ItemRectificationDetails string `json:"itemRectificationDetails"`
}

// ItemOutRequest is the body of PUT /items/out/{passNo}.
type ItemOutRequest struct {
	Items []ItemOutUpdate `json:"items"`
}

func NewItemOutRequest(r PassRecord) ItemOutRequest {
	req := ItemOutRequest{Items: make([]ItemOutUpdate, len(r.Items))}
	for i, it := range r.Items {
		req.Items[i] = ItemOutUpdate{
			Index:                    i,
			SerialNumber:             it.SerialNumber,
			ItemOut:                  it.ItemOut,
			DateOut:                  it.DateOut,
			ItemRectificationDetails: it.ItemRectificationDetails,
		}
	}
	return req
}
