// Package staff extracts the staff-line geometry of a binarized sheet-music
// page and edits the page with it.
//
// The pipeline runs leaves first:
//
//  1. MeasureRuns: vertical run-length histograms give the line thickness
//     (StaffHeight) and line-to-line distance (StaffSpace).
//  2. GetStaffModel: coarse rotation search plus per-column line tracking
//     produce a Model holding one vertical offset per column.
//  3. FitStaffModel: the gradient-corrected row profile is split into
//     five-line staves.
//  4. RemoveStaffs erases the staff lines while keeping crossing symbols;
//     Realign shifts columns so the lines run straight.
//
// # Coordinates
//
// Rows and columns are 0-based with the origin at the top-left pixel. Staff
// rows are measured at the model's StartCol; the row of a line in another
// column c is row + Gradient[c-StartCol].
//
// # Concurrency
//
// GetStaffModel spreads angle scoring and chunk tracking over a bounded pool
// of goroutines. Workers only read the page and write disjoint result slots;
// merging happens after they join, so the Model is the same for any thread
// count. RemoveStaffs and Realign mutate the caller's image and need
// exclusive access to it.
//
// # Errors
//
// ErrNoStaffSignal means the page has no measurable staff pattern and is a
// normal outcome for blank or text-only pages. Applying a Model to a raster
// of a different size panics with a *GeometryError wrapping
// ErrInconsistentGeometry; use Model.Validate to check first.
package staff
