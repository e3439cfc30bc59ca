// Package scheme implements the record layout of the storage engine: typed
// field descriptors, the validated layout with its precomputed offsets, the
// total-order record comparator, packed-value assembly and accessors, and the
// persisted scheme form.
//
// A scheme is built once and validated once:
//
//	s := scheme.New()
//	s.Add(scheme.NewField("id", "u32,key(0)"))
//	s.Add(scheme.NewField("name", "string"))
//	if err := s.Validate(); err != nil { ... }
//
// Validation injects the engine-owned _flags and _lsn meta fields, computes
// the fixed-region offsets and the key vector, and freezes the scheme. A
// validated scheme is immutable and safe for concurrent readers.
package scheme

import (
	"fmt"

	"github.com/arloliu/recfmt/errs"
	"github.com/arloliu/recfmt/format"
	"github.com/arloliu/recfmt/internal/hash"
)

// Scheme is the immutable layout descriptor for the records of one database.
type Scheme struct {
	// Fields is the ordered field list. Validation appends the engine-owned
	// meta fields the user did not declare, so _flags and _lsn usually sit at
	// the end.
	Fields []*Field
	// Keys is the key vector, indexed by key position.
	Keys []*Field

	// VarOffset is the byte offset where the variable region starts in a
	// packed value, equal to the total fixed-region size.
	VarOffset int
	// VarCount is the number of variable-width fields.
	VarCount int

	// Precomputed fixed-region offsets of the meta fields.
	OffsetFlags  int
	OffsetLSN    int
	OffsetExpire int

	HasLSN       bool
	HasFlags     bool
	HasTimestamp bool
	HasExpire    bool

	cmp          CompareFunc
	timestampPos int
	injected     int
	validated    bool

	// ids maps hashed field names to descriptors for O(1) Find. Disabled
	// when two field names collide on the 64-bit hash.
	ids         map[uint64]*Field
	idCollision bool
}

// New creates an empty, unvalidated scheme.
func New() *Scheme {
	return &Scheme{timestampPos: -1}
}

// Add appends a field to the scheme, assigning its position.
// Adding to a validated scheme fails.
func (s *Scheme) Add(f *Field) error {
	if s.validated {
		return errs.ErrSchemeValidated
	}
	f.Position = len(s.Fields)
	f.PositionKey = -1
	s.Fields = append(s.Fields, f)

	return nil
}

// SetComparator installs a scheme-level comparator override. When set, it
// replaces every field's type comparator during validation.
func (s *Scheme) SetComparator(cmp CompareFunc) error {
	if s.validated {
		return errs.ErrSchemeValidated
	}
	s.cmp = cmp

	return nil
}

// Validated reports whether Validate has completed successfully.
func (s *Scheme) Validated() bool {
	return s.validated
}

// FieldsCount returns the number of fields, meta fields included.
func (s *Scheme) FieldsCount() int {
	return len(s.Fields)
}

// KeysCount returns the number of key fields.
func (s *Scheme) KeysCount() int {
	return len(s.Keys)
}

// TimestampField returns the timestamp field, or nil when the scheme has none.
func (s *Scheme) TimestampField() *Field {
	if s.timestampPos < 0 {
		return nil
	}

	return s.Fields[s.timestampPos]
}

// Validate finalizes the scheme: it injects the _flags and _lsn meta fields,
// tokenizes every field's options string, verifies the role constraints,
// assigns layout offsets and reference positions, and builds the key vector.
//
// Validation is the only path to a usable scheme and may run once; the scheme
// is immutable afterwards.
func (s *Scheme) Validate() error {
	if s.validated {
		return errs.ErrSchemeValidated
	}
	if len(s.Fields) == 0 {
		return errs.ErrEmptyScheme
	}

	// Inject the engine-owned meta fields the user did not declare. They
	// land at the end of the field list and are suppressed in the
	// serialized form.
	if !s.declares("flags") {
		if err := s.Add(NewField("_flags", "u8,flags")); err != nil {
			return err
		}
		s.injected++
	}
	if !s.declares("lsn") {
		if err := s.Add(NewField("_lsn", "u64,lsn")); err != nil {
			return err
		}
		s.injected++
	}

	if err := s.checkDuplicateNames(); err != nil {
		return err
	}

	fixedOffset := 0
	fixedPos := 0
	keysCount := 0
	for _, f := range s.Fields {
		if err := s.applyFieldOptions(f); err != nil {
			return err
		}
		if err := s.validateRoles(f); err != nil {
			return err
		}

		// Layout for fixed-width fields: reference position and offset are
		// running counters over the fixed region.
		if f.FixedSize > 0 {
			f.PositionRef = fixedPos
			fixedPos++
			f.FixedOffset = fixedOffset
			fixedOffset += f.FixedSize

			switch {
			case f.Expire:
				s.OffsetExpire = f.FixedOffset
			case f.LSN:
				s.OffsetLSN = f.FixedOffset
			case f.Flags:
				s.OffsetFlags = f.FixedOffset
			}
		} else {
			s.VarCount++
		}
		if f.Key {
			keysCount++
		}
	}
	s.VarOffset = fixedOffset

	if s.HasExpire && !s.HasTimestamp {
		return errs.ErrExpireWithoutTimestamp
	}
	if keysCount == 0 {
		return errs.ErrNoKeys
	}

	// Build the key vector: each key field lands at its declared key
	// position, every slot filled exactly once. Variable fields pick up
	// their reference position on the same pass.
	s.Keys = make([]*Field, keysCount)
	varPos := 0
	for _, f := range s.Fields {
		if f.Key {
			if f.PositionKey < 0 || f.PositionKey >= keysCount {
				return fmt.Errorf("%w: field '%s' key(%d)", errs.ErrBadKeyPosition, f.Name, f.PositionKey)
			}
			if s.Keys[f.PositionKey] != nil {
				return fmt.Errorf("%w: duplicate key(%d)", errs.ErrBadKeyPosition, f.PositionKey)
			}
			s.Keys[f.PositionKey] = f
		}
		if f.FixedSize == 0 {
			f.PositionRef = varPos
			varPos++
		}
	}
	for i, f := range s.Keys {
		if f == nil {
			return fmt.Errorf("%w: key(%d) is not declared", errs.ErrBadKeyPosition, i)
		}
	}

	s.buildIDs()
	s.validated = true

	return nil
}

// applyFieldOptions tokenizes and applies a field's options string, then
// installs the scheme-level comparator override when one is set.
func (s *Scheme) applyFieldOptions(f *Field) error {
	if f.Name == "" {
		return fmt.Errorf("%w: empty field name", errs.ErrFieldNotFound)
	}
	if f.Options == "" {
		return fmt.Errorf("%w: field '%s'", errs.ErrMissingOptions, f.Name)
	}

	for token := range tokens(f.Options) {
		if err := f.applyOption(token); err != nil {
			return err
		}
	}
	if f.Type == format.TypeUndef {
		return fmt.Errorf("%w: field '%s'", errs.ErrMissingType, f.Name)
	}
	if s.cmp != nil {
		f.cmp = s.cmp
	}

	return nil
}

// validateRoles enforces the role constraints: at most one role bit per
// field, the meta-type pairings, and single occurrence of each meta role.
func (s *Scheme) validateRoles(f *Field) error {
	if f.roleCount() > 1 {
		return fmt.Errorf("%w: field '%s'", errs.ErrRoleConflict, f.Name)
	}

	if f.Timestamp {
		if f.Type != format.TypeU32 {
			return fmt.Errorf("%w: timestamp field '%s' must be u32", errs.ErrBadMetaType, f.Name)
		}
		if s.HasTimestamp {
			return fmt.Errorf("%w: timestamp", errs.ErrDuplicateMeta)
		}
		s.HasTimestamp = true
		s.timestampPos = f.Position
	}
	if f.Expire {
		if f.Type != format.TypeU32 {
			return fmt.Errorf("%w: expire field '%s' must be u32", errs.ErrBadMetaType, f.Name)
		}
		if s.HasExpire {
			return fmt.Errorf("%w: expire", errs.ErrDuplicateMeta)
		}
		s.HasExpire = true
	}
	if f.Flags {
		if f.Type != format.TypeU8 {
			return fmt.Errorf("%w: flags field '%s' must be u8", errs.ErrBadMetaType, f.Name)
		}
		if s.HasFlags {
			return fmt.Errorf("%w: flags", errs.ErrDuplicateMeta)
		}
		s.HasFlags = true
	}
	if f.LSN {
		if f.Type != format.TypeU64 {
			return fmt.Errorf("%w: lsn field '%s' must be u64", errs.ErrBadMetaType, f.Name)
		}
		if s.HasLSN {
			return fmt.Errorf("%w: lsn", errs.ErrDuplicateMeta)
		}
		s.HasLSN = true
	}

	return nil
}

// buildIDs hashes every field name for O(1) Find. A 64-bit hash collision
// between two distinct names falls the lookup back to a linear scan.
func (s *Scheme) buildIDs() {
	s.ids = make(map[uint64]*Field, len(s.Fields))
	for _, f := range s.Fields {
		id := hash.ID(f.Name)
		if _, exists := s.ids[id]; exists {
			s.idCollision = true
		}
		s.ids[id] = f
	}
}

// declares reports whether any field's options string carries the given
// role token.
func (s *Scheme) declares(role string) bool {
	for _, f := range s.Fields {
		for token := range tokens(f.Options) {
			if token == role {
				return true
			}
		}
	}

	return false
}

// checkDuplicateNames verifies field-name uniqueness with a full scan.
func (s *Scheme) checkDuplicateNames() error {
	for i, f := range s.Fields {
		for _, g := range s.Fields[i+1:] {
			if f.Name == g.Name {
				return fmt.Errorf("%w: '%s'", errs.ErrDuplicateField, f.Name)
			}
		}
	}

	return nil
}

// Find resolves a field by name. It returns nil when the name is unknown.
func (s *Scheme) Find(name string) *Field {
	if s.ids != nil && !s.idCollision {
		f, ok := s.ids[hash.ID(name)]
		if ok && f.Name == name {
			return f
		}

		return nil
	}

	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}

	return nil
}

// FieldAt returns the field at the given position, or nil when out of range.
func (s *Scheme) FieldAt(pos int) *Field {
	if pos < 0 || pos >= len(s.Fields) {
		return nil
	}

	return s.Fields[pos]
}

// tokens iterates the comma or space separated tokens of an options string.
func tokens(options string) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		start := -1
		for i := 0; i <= len(options); i++ {
			sep := i == len(options) || options[i] == ',' || options[i] == ' '
			if sep {
				if start >= 0 && !yield(options[start:i]) {
					return
				}
				start = -1
			} else if start < 0 {
				start = i
			}
		}
	}
}
