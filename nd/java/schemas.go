package java

import (
	"github.com/joshuapare/ndkit/db/alloc"
	"github.com/joshuapare/ndkit/nd"
	"github.com/joshuapare/ndkit/nd/field"
)

// AnnotationLayout is the Annotation schema and its descriptors.
type AnnotationLayout struct {
	Def      *field.StructDef
	TypeName *field.String
}

// TypeAnnotationLayout is the TypeAnnotation schema and its descriptors.
type TypeAnnotationLayout struct {
	Def        *field.StructDef
	TargetType *field.Byte
	TargetArg0 *field.Byte
	TargetArg1 *field.Byte
	PathLength *field.Byte
	Path       *field.Pointer
}

// Layouts holds every schema this package registers.
type Layouts struct {
	Annotation     *AnnotationLayout
	TypeAnnotation *TypeAnnotationLayout
}

// Register builds the annotation schemas and registers them in reg, parent
// first.
func Register(reg *nd.Registry) (*Layouts, error) {
	a, err := buildAnnotation()
	if err != nil {
		return nil, err
	}
	if _, err := reg.Register(a.Def); err != nil {
		return nil, err
	}
	ta, err := buildTypeAnnotation(a)
	if err != nil {
		return nil, err
	}
	if _, err := reg.Register(ta.Def); err != nil {
		return nil, err
	}
	return &Layouts{Annotation: a, TypeAnnotation: ta}, nil
}

func buildAnnotation() (*AnnotationLayout, error) {
	def, err := field.Create("Annotation", nil)
	if err != nil {
		return nil, err
	}
	l := &AnnotationLayout{Def: def}
	if l.TypeName, err = def.AddString("typeName", alloc.PoolString); err != nil {
		return nil, err
	}
	if err := def.Done(); err != nil {
		return nil, err
	}
	return l, nil
}

func buildTypeAnnotation(parent *AnnotationLayout) (*TypeAnnotationLayout, error) {
	def, err := field.Create("TypeAnnotation", parent.Def)
	if err != nil {
		return nil, err
	}
	l := &TypeAnnotationLayout{Def: def}
	if l.TargetType, err = def.AddByte("targetType"); err != nil {
		return nil, err
	}
	if l.TargetArg0, err = def.AddByte("targetArg0"); err != nil {
		return nil, err
	}
	if l.TargetArg1, err = def.AddByte("targetArg1"); err != nil {
		return nil, err
	}
	if l.PathLength, err = def.AddByte("pathLength"); err != nil {
		return nil, err
	}
	if l.Path, err = def.AddPointer("path", field.Owns(alloc.PoolMisc)); err != nil {
		return nil, err
	}
	if err := def.OnDestruct(l.freePath); err != nil {
		return nil, err
	}
	if err := def.Done(); err != nil {
		return nil, err
	}
	return l, nil
}
