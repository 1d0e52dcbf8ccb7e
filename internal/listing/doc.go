// Package listing derives list views from in-memory record slices: text
// search, advanced filters, column sort, row selection and paging. Every
// function returns a new slice and leaves its input untouched.
package listing
