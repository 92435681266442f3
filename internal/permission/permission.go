// Package permission defines the named classroom capabilities and the
// packed multi-word bitmask they are stored as. Roles persist their
// permission set as an ordered list of 32-bit words, low word first;
// Encode packs the words into one wide integer so role sets can be
// OR-combined and tested against a required permission.
package permission

import "math/big"

const wordBits = 32

var wordMask = new(big.Int).SetUint64(0xFFFFFFFF)

// Named capabilities, one bit each. The set is extensible past 64 bits;
// storage simply grows by another word.
var (
	Owner             = Bit(0)
	ManageRoles       = Bit(1)
	UpdateClassroom   = Bit(2)
	DeleteClassroom   = Bit(3)
	InviteMembers     = Bit(4)
	RemoveMembers     = Bit(5)
	PostAnnouncements = Bit(6)
	ManageMaterials   = Bit(7)
	SubmitAssignments = Bit(8)
	ViewMaterials     = Bit(9)
)

var byName = map[string]*big.Int{
	"owner":              Owner,
	"manage_roles":       ManageRoles,
	"update_classroom":   UpdateClassroom,
	"delete_classroom":   DeleteClassroom,
	"invite_members":     InviteMembers,
	"remove_members":     RemoveMembers,
	"post_announcements": PostAnnouncements,
	"manage_materials":   ManageMaterials,
	"submit_assignments": SubmitAssignments,
	"view_materials":     ViewMaterials,
}

// ByName resolves a wire-format permission name to its bit value.
func ByName(name string) (*big.Int, bool) {
	value, ok := byName[name]
	return value, ok
}

// Bit returns a permission value with only bit n set.
func Bit(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

// Encode packs 32-bit words into a single wide integer, words[0] in the
// low 32 bits, words[1] in the next 32, and so on. The iteration runs
// from the highest index down so each shift makes room for the next
// lower word.
func Encode(words []uint32) *big.Int {
	value := new(big.Int)
	for i := len(words) - 1; i >= 0; i-- {
		value.Lsh(value, wordBits)
		value.Or(value, new(big.Int).SetUint64(uint64(words[i])))
	}
	return value
}

// Decode is the inverse of Encode: it masks off the low 32 bits into
// the output until the remaining value is zero. Zero decodes to an
// empty word list.
func Decode(value *big.Int) []uint32 {
	var words []uint32
	rest := new(big.Int).Set(value)
	for rest.Sign() != 0 {
		word := new(big.Int).And(rest, wordMask)
		words = append(words, uint32(word.Uint64()))
		rest.Rsh(rest, wordBits)
	}
	return words
}

// Union ORs permission sets together into a fresh value.
func Union(sets ...*big.Int) *big.Int {
	combined := new(big.Int)
	for _, set := range sets {
		combined.Or(combined, set)
	}
	return combined
}

// Has reports whether the granted set shares at least one bit with the
// required permission.
func Has(granted, required *big.Int) bool {
	return new(big.Int).And(granted, required).Sign() != 0
}
