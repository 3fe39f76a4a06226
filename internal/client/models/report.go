package models

// ItemStatus is the derived state shown in reports.
type ItemStatus string

const (
	StatusIn  ItemStatus = "IN"
	StatusOut ItemStatus = "OUT"
)

// Status is OUT only when the item both came in and went out.
func (it LineItem) Status() ItemStatus {
	if it.ItemIn && it.ItemOut {
		return StatusOut
	}
	return StatusIn
}

// ReportRow is one line item flattened together with its pass header.
type ReportRow struct {
	PassNo        string
	DateIn        Date
	ProjectName   string
	CustomerName  string
	EquipmentType EquipmentType
	ItemName      string
	PartNumber    string
	SerialNumber  string
	Status        ItemStatus
	DateOut       Date
}

// ReportRows flattens records into one row per line item, keeping the
// record order and the item order inside each record.
func ReportRows(records []PassRecord) []ReportRow {
	var rows []ReportRow
	for _, r := range records {
		for _, it := range r.Items {
			rows = append(rows, ReportRow{
				PassNo:        r.PassNo,
				DateIn:        r.DateIn,
				ProjectName:   r.ProjectName,
				CustomerName:  r.Customer.Name,
				EquipmentType: it.EquipmentType,
				ItemName:      it.ItemName,
				PartNumber:    it.PartNumber,
				SerialNumber:  it.SerialNumber,
				Status:        it.Status(),
				DateOut:       it.DateOut,
			})
		}
	}
	return rows
}
