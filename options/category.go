package options

// CategoryEnum is a bit set of scalar coercions the mapper may apply when a raw
// value does not already have the requested type.
type CategoryEnum int

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float with precision loss (truncation, wrap around)
	CategoryTextNumber                            // string -> int, uint, float: textual number representation
	CategoryNumericBool                           // int -> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string -> bool: yes, no, on, off, true, false representation of boolean values
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time: textual date and time representation
	CategoryTimestamp                             // int(Unix seconds) -> time.Time: Unix timestamp representation
	CategoryDuration                              // string(2h45m) <-> time.Duration: textual duration representation
	CategoryNanoseconds                           // int(nanoseconds) -> time.Duration: numerical (integer) duration representation
	CategorySeconds                               // float(seconds) -> time.Duration: numerical (floating-point) duration representation
	CategoryEnumString                            // string -> enum: case-insensitive match against the enum's declared values
	CategorySafeArray                             // sequence -> array: sequence fits into the array, the rest is left with zero values
	CategoryUnsafeArray                           // sequence -> array: sequence does not fit, extra elements are cut

	CategoryAll  = (1 << iota) - 1 //all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryDefault is what a mapper uses unless configured otherwise.
	CategoryDefault = CategorySafeNumber | CategoryUnsafeNumber | CategoryEnumString |
		CategoryDuration | CategoryDatetime | CategorySafeArray
)

// Has reports whether every category of other is enabled in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}
