// Package keygen generates SSH key pairs for the connectivity probe and for
// the throwaway SSH servers used in tests.
package keygen
