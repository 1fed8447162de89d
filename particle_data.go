package pfx

import "github.com/TheBitDrifter/mask"

// ParticleDataType names an optional per-particle attribute. Only fields some
// active feature asked for are materialized by the simulation.
type ParticleDataType uint8

const (
	DataSpawnID ParticleDataType = iota
	DataParentID
	DataState
	DataSpawnFraction
	DataNormalAge
	DataLifeTime
	DataInvLifeTime
	DataUnitRandom
	DataPosition
	DataVelocity
	DataAcceleration
	DataOrientation
	DataAngularVelocity
	DataSize
	DataAngle
	DataSpin
	DataColor
	DataAlpha
	DataTile
	DataAuxPosition

	ParticleDataCount
)

var particleDataNames = [ParticleDataCount]string{
	"SpawnID",
	"ParentID",
	"State",
	"SpawnFraction",
	"NormalAge",
	"LifeTime",
	"InvLifeTime",
	"UnitRandom",
	"Position",
	"Velocity",
	"Acceleration",
	"Orientation",
	"AngularVelocity",
	"Size",
	"Angle",
	"Spin",
	"Color",
	"Alpha",
	"Tile",
	"AuxPosition",
}

func (t ParticleDataType) Valid() bool {
	return t < ParticleDataCount
}

func (t ParticleDataType) String() string {
	if !t.Valid() {
		return "ParticleData(invalid)"
	}
	return particleDataNames[t]
}

// ParticleDataSet is a fixed-size set over ParticleDataType.
// The zero value is empty and ready to use.
type ParticleDataSet struct {
	bits mask.Mask
}

// Add marks a field as used. Adding a field twice is a no-op.
func (s *ParticleDataSet) Add(t ParticleDataType) {
	if !t.Valid() {
		panic(UnknownParticleDataError{Type: t})
	}
	s.bits.Mark(uint32(t))
}

func (s ParticleDataSet) Has(t ParticleDataType) bool {
	if !t.Valid() {
		return false
	}
	var single mask.Mask
	single.Mark(uint32(t))
	return s.bits.ContainsAll(single)
}

// ContainsAll reports whether every field of o is also in s
func (s ParticleDataSet) ContainsAll(o ParticleDataSet) bool {
	return s.bits.ContainsAll(o.bits)
}

func (s ParticleDataSet) Empty() bool {
	return s.bits == mask.Mask{}
}

// Types lists the used fields in enum order
func (s ParticleDataSet) Types() []ParticleDataType {
	var types []ParticleDataType
	for t := ParticleDataType(0); t < ParticleDataCount; t++ {
		if s.Has(t) {
			types = append(types, t)
		}
	}
	return types
}

func (s ParticleDataSet) Len() int {
	return len(s.Types())
}
