// Package editor holds the in-memory editing state of a pass record: the
// header fields, the line-item list and the mode that decides which of them
// may change.
//
// An Editor is not safe for concurrent use; the shell drives it from a single
// goroutine.
package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatepass/internal/client/models"
)

type Mode int

const (
	// ModeCreate edits a brand new record; every field is writable.
	ModeCreate Mode = iota
	// ModeView shows a fetched record read-only.
	ModeView
	// ModeEdit edits a fetched record; the pass number stays locked.
	ModeEdit
	// ModeItemOut only lets the return fields of line items change.
	ModeItemOut
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeView:
		return "view"
	case ModeEdit:
		return "edit"
	case ModeItemOut:
		return "item-out"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

var (
	ErrReadOnly    = errors.New("record is read-only; use edit first")
	ErrLastItem    = errors.New("a record needs at least one item")
	ErrNoSuchItem  = errors.New("no such item")
	ErrFieldLocked = errors.New("field cannot be changed in this mode")
	ErrNoRecord    = errors.New("no record loaded")
)

type HeaderField string

const (
	FieldPassNo       HeaderField = "passNo"
	FieldDateIn       HeaderField = "dateIn"
	FieldProjectName  HeaderField = "projectName"
	FieldCustomerName HeaderField = "customer.name"
	FieldUnitAddress  HeaderField = "customer.unitAddress"
	FieldLocation     HeaderField = "customer.location"
	FieldPhone        HeaderField = "customer.phone"
)

var HeaderFields = []HeaderField{
	FieldPassNo, FieldDateIn, FieldProjectName,
	FieldCustomerName, FieldUnitAddress, FieldLocation, FieldPhone,
}

func ParseHeaderField(s string) (HeaderField, error) {
	for _, f := range HeaderFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

type ItemField string

const (
	ItemEquipmentType ItemField = "equipmentType"
	ItemName          ItemField = "itemName"
	ItemPartNumber    ItemField = "partNumber"
	ItemSerialNumber  ItemField = "serialNumber"
	ItemDefectDetails ItemField = "defectDetails"
	ItemOut           ItemField = "itemOut"
	ItemDateOut       ItemField = "dateOut"
	ItemRectification ItemField = "itemRectificationDetails"
)

var ItemFields = []ItemField{
	ItemEquipmentType, ItemName, ItemPartNumber, ItemSerialNumber,
	ItemDefectDetails, ItemOut, ItemDateOut, ItemRectification,
}

func ParseItemField(s string) (ItemField, error) {
	for _, f := range ItemFields {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown item field %q", s)
}

// returnFields are the only item fields writable in ModeItemOut.
func (f ItemField) returnField() bool {
	return f == ItemOut || f == ItemDateOut || f == ItemRectification
}

type Editor struct {
	mode     Mode
	record   models.PassRecord
	snapshot models.PassRecord
	loaded   bool
	now      func() time.Time
}

// NewCreate returns a blank form: dateIn is today and there is one default
// item.
func NewCreate(now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	e := &Editor{mode: ModeCreate, now: now}
	e.reset()
	return e
}

// NewEdit opens rec read-only. BeginEdit unlocks it.
func NewEdit(rec models.PassRecord, now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	e := &Editor{mode: ModeView, now: now}
	e.Load(rec)
	return e
}

// NewItemOut opens rec for recording returned items.
func NewItemOut(rec models.PassRecord, now func() time.Time) *Editor {
	if now == nil {
		now = time.Now
	}
	e := &Editor{mode: ModeItemOut, now: now}
	e.Load(rec)
	return e
}

func (e *Editor) reset() {
	e.record = models.PassRecord{
		DateIn: models.DateOf(e.now()),
		Items:  []models.LineItem{models.NewLineItem()},
	}
	e.snapshot = e.record.Clone()
	e.loaded = true
}

func (e *Editor) Mode() Mode { return e.mode }

// Record returns a copy of the working record.
func (e *Editor) Record() models.PassRecord { return e.record.Clone() }

// Dirty reports whether the working record differs from the last snapshot.
func (e *Editor) Dirty() bool {
	a, b := e.record, e.snapshot
	if a.PassNo != b.PassNo || !a.DateIn.Equal(b.DateIn.Time) || a.ProjectName != b.ProjectName || a.Customer != b.Customer {
		return true
	}
	if len(a.Items) != len(b.Items) {
		return true
	}
	for i := range a.Items {
		x, y := a.Items[i], b.Items[i]
		if !x.DateOut.Equal(y.DateOut.Time) {
			return true
		}
		x.DateOut, y.DateOut = models.Date{}, models.Date{}
		if x != y {
			return true
		}
	}
	return false
}

// Load replaces the working record and the snapshot with rec. Fetched
// records always come back read-only, except in item-out mode.
func (e *Editor) Load(rec models.PassRecord) {
	e.record = rec.Clone()
	if len(e.record.Items) == 0 {
		e.record.Items = []models.LineItem{models.NewLineItem()}
	}
	e.snapshot = e.record.Clone()
	e.loaded = true
	if e.mode == ModeEdit {
		e.mode = ModeView
	}
}

func (e *Editor) BeginEdit() error {
	switch e.mode {
	case ModeView:
		e.mode = ModeEdit
		return nil
	case ModeEdit:
		return nil
	}
	return fmt.Errorf("%w: cannot edit in %s mode", ErrFieldLocked, e.mode)
}

// Cancel drops unsaved changes. A create form goes back to blank, a fetched
// record goes back to its snapshot and becomes read-only.
func (e *Editor) Cancel() {
	switch e.mode {
	case ModeCreate:
		e.reset()
	case ModeEdit:
		e.record = e.snapshot.Clone()
		e.mode = ModeView
	default:
		e.record = e.snapshot.Clone()
	}
}

// Saved is called after the server accepted the record.
func (e *Editor) Saved() {
	switch e.mode {
	case ModeCreate:
		e.reset()
	case ModeEdit:
		e.snapshot = e.record.Clone()
		e.mode = ModeView
	default:
		e.snapshot = e.record.Clone()
	}
}

func (e *Editor) writable() error {
	if !e.loaded {
		return ErrNoRecord
	}
	if e.mode == ModeView {
		return ErrReadOnly
	}
	return nil
}

func (e *Editor) SetHeader(field HeaderField, value string) error {
	if err := e.writable(); err != nil {
		return err
	}
	if e.mode == ModeItemOut {
		return fmt.Errorf("%w: %s", ErrFieldLocked, field)
	}
	value = strings.TrimSpace(value)

	r := &e.record
	switch field {
	case FieldPassNo:
		if e.mode != ModeCreate {
			return fmt.Errorf("%w: %s", ErrFieldLocked, field)
		}
		r.PassNo = value
	case FieldDateIn:
		d, err := models.ParseDate(value)
		if err != nil {
			return err
		}
		r.DateIn = d
	case FieldProjectName:
		r.ProjectName = value
	case FieldCustomerName:
		r.Customer.Name = value
	case FieldUnitAddress:
		r.Customer.UnitAddress = value
	case FieldLocation:
		r.Customer.Location = value
	case FieldPhone:
		r.Customer.Phone = value
	default:
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

// AddLineItem appends a default item and returns its index.
func (e *Editor) AddLineItem() (int, error) {
	if err := e.writable(); err != nil {
		return 0, err
	}
	if e.mode == ModeItemOut {
		return 0, ErrFieldLocked
	}
	e.record.Items = append(e.record.Items, models.NewLineItem())
	return len(e.record.Items) - 1, nil
}

func (e *Editor) RemoveLineItem(i int) error {
	if err := e.writable(); err != nil {
		return err
	}
	if e.mode == ModeItemOut {
		return ErrFieldLocked
	}
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if len(e.record.Items) == 1 {
		return ErrLastItem
	}
	e.record.Items = append(e.record.Items[:i], e.record.Items[i+1:]...)
	return nil
}

// UpdateLineItem sets one field of item i from its text form.
func (e *Editor) UpdateLineItem(i int, field ItemField, value string) error {
	if err := e.itemWritable(i, field); err != nil {
		return err
	}
	value = strings.TrimSpace(value)

	it := &e.record.Items[i]
	switch field {
	case ItemEquipmentType:
		t, err := models.ParseEquipmentType(value)
		if err != nil {
			return err
		}
		it.EquipmentType = t
	case ItemName:
		it.ItemName = value
	case ItemPartNumber:
		it.PartNumber = value
	case ItemSerialNumber:
		it.SerialNumber = value
	case ItemDefectDetails:
		it.DefectDetails = value
	case ItemOut:
		out, err := ParseFlag(value)
		if err != nil {
			return err
		}
		e.setItemOut(it, out)
	case ItemDateOut:
		d, err := models.ParseDate(value)
		if err != nil {
			return err
		}
		it.DateOut = d
	case ItemRectification:
		it.ItemRectificationDetails = value
	default:
		return fmt.Errorf("unknown item field %q", field)
	}
	return nil
}

// SetItemOut flips the returned flag of item i.
func (e *Editor) SetItemOut(i int, out bool) error {
	if err := e.itemWritable(i, ItemOut); err != nil {
		return err
	}
	e.setItemOut(&e.record.Items[i], out)
	return nil
}

// setItemOut stamps today when an item goes out without a date and forgets
// the date when it comes back.
func (e *Editor) setItemOut(it *models.LineItem, out bool) {
	it.ItemOut = out
	switch {
	case out && it.DateOut.IsZero():
		it.DateOut = models.DateOf(e.now())
	case !out:
		it.DateOut = models.Date{}
	}
}

func (e *Editor) itemWritable(i int, field ItemField) error {
	if err := e.writable(); err != nil {
		return err
	}
	if err := e.checkIndex(i); err != nil {
		return err
	}
	if e.mode == ModeItemOut && !field.returnField() {
		return fmt.Errorf("%w: %s", ErrFieldLocked, field)
	}
	return nil
}

func (e *Editor) checkIndex(i int) error {
	if i < 0 || i >= len(e.record.Items) {
		return fmt.Errorf("%w: #%d (have %d)", ErrNoSuchItem, i+1, len(e.record.Items))
	}
	return nil
}

// ParseFlag reads yes/no style answers, including "out" and "in".
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "on", "out":
		return true, nil
	case "n", "no", "off", "in":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("want yes or no, got %q", s)
	}
	return b, nil
}
