package shader

// Role is the closed set of per-vertex inputs a program may declare.
type Role int

const (
	RolePosition Role = iota
	RoleNormal
	RoleTangent
	RoleBitangent
	RoleColor
	RoleUV
	RoleRoughness
	RoleParticlePosition
	RoleParticleColor
	roleCount
)

var roleAttributeNames = [roleCount]string{
	"aVertexPosition",
	"aVertexNormal",
	"aVertexTangent",
	"aVertexBitangent",
	"aVertexColor",
	"aTextureCoord",
	"aVertexRoughness",
	"aParticlePosition",
	"aParticleColor",
}

var roleComponents = [roleCount]int{3, 3, 3, 3, 4, 2, 1, 3, 3}

// AttributeName returns the identifier the generated sources declare for the role.
func (r Role) AttributeName() string {
	if r < 0 || r >= roleCount {
		return ""
	}
	return roleAttributeNames[r]
}

// Components returns the number of float32 components the role consumes per vertex.
func (r Role) Components() int {
	if r < 0 || r >= roleCount {
		return 0
	}
	return roleComponents[r]
}

// Location returns the fixed WGSL @location the generated sources assign to the role.
func (r Role) Location() int {
	switch r {
	case RoleParticlePosition:
		return 0
	case RoleParticleColor:
		return 1
	default:
		return int(r)
	}
}

func (r Role) String() string {
	return r.AttributeName()
}

// Roles returns every role in declaration order.
func Roles() []Role {
	out := make([]Role, roleCount)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// UniformRole is the closed set of per-draw constants a program may declare.
type UniformRole int

const (
	UniformProjection UniformRole = iota
	UniformModelView
	UniformNormalMatrix
	UniformBaseColor
	UniformAmbientColor
	UniformLightDirection
	UniformLightColor
	UniformShininess
	UniformPointSize
	UniformBumpMap
	uniformRoleCount
)

var uniformNames = [uniformRoleCount]string{
	"uProjectionMatrix",
	"uModelViewMatrix",
	"uNormalMatrix",
	"uBaseColor",
	"uAmbientColor",
	"uLightDirection",
	"uLightColor",
	"uShininess",
	"uPointSize",
	"uBumpMap",
}

// UniformName returns the identifier the generated sources declare for the uniform.
func (u UniformRole) UniformName() string {
	if u < 0 || u >= uniformRoleCount {
		return ""
	}
	return uniformNames[u]
}

func (u UniformRole) String() string {
	return u.UniformName()
}

// UniformRoles returns every uniform role in declaration order.
func UniformRoles() []UniformRole {
	out := make([]UniformRole, uniformRoleCount)
	for i := range out {
		out[i] = UniformRole(i)
	}
	return out
}
