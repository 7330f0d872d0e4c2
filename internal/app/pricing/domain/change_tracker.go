package domain

import "sort"

// ProductField names an editable product attribute. The values are what
// ProductUpdatedEvent.ChangedFields reports.
type ProductField string

const (
	FieldName         ProductField = "name"
	FieldDescription  ProductField = "description"
	FieldType         ProductField = "type"
	FieldKarat        ProductField = "karat"
	FieldPurity       ProductField = "purity"
	FieldWeight       ProductField = "weight"
	FieldMakingCharge ProductField = "making_charge"
	FieldStoredRate   ProductField = "stored_rate"
)

// ChangeTracker is the set of product fields edited since the product was
// loaded. Repositories write only these columns.
type ChangeTracker struct {
	dirty map[ProductField]struct{}
}

func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirty: make(map[ProductField]struct{})}
}

func (ct *ChangeTracker) MarkDirty(field ProductField) {
	ct.dirty[field] = struct{}{}
}

func (ct *ChangeTracker) Dirty(field ProductField) bool {
	_, ok := ct.dirty[field]
	return ok
}

func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirty) > 0
}

// DirtyFields returns the edited field names, sorted.
func (ct *ChangeTracker) DirtyFields() []string {
	fields := make([]string, 0, len(ct.dirty))
	for field := range ct.dirty {
		fields = append(fields, string(field))
	}
	sort.Strings(fields)
	return fields
}
