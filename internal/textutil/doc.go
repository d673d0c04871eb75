// Package textutil turns capture names into safe file names.
package textutil
