// Package java defines annotation records on top of the nd engine: an
// Annotation holding the annotation type name, and a TypeAnnotation that adds
// the JVMS type annotation target and type path.
//
// Schemas are created by Register, once per registry, and returned as
// Layouts; nothing is built at package initialization.
package java
