// Package fpcalc wraps the Chromaprint fpcalc binary.
package fpcalc
