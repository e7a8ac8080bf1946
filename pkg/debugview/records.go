package debugview

import (
	"fmt"
	"strings"
)

// ModelID is the node id of the synthetic model root.
const ModelID = "IModel"

const (
	defaultChangeTracking = "ChangeTrackingStrategy.Snapshot"
	changeTrackingPrefix  = "ChangeTrackingStrategy."
	noneValue             = "None"
)

// Node is a DGML node record.
type Node interface {
	NodeID() string
	Markup() string
}

// Link is a DGML link record.
type Link interface {
	Endpoints() (source, target string)
	Markup() string
}

// ModelNode is the root node describing the model as a whole.
type ModelNode struct {
	Label          string
	ChangeTracking string
	AccessMode     AccessMode
	ProductVersion string
	Annotations    []string
}

// NodeID implements Node.
func (n ModelNode) NodeID() string { return ModelID }

// Markup implements Node.
func (n ModelNode) Markup() string {
	return fmt.Sprintf(`<Node Id="%s" Label="%s" ChangeTrackingStrategy="%s" PropertyAccessMode="%s" ProductVersion="%s" Annotations="%s" Category="Model" Group="Expanded" />`,
		ModelID, Escape(n.Label), Escape(n.ChangeTracking), n.AccessMode, Escape(n.ProductVersion), joinAnnotations(n.Annotations))
}

// EntityNode describes one entity type.
type EntityNode struct {
	Name           string
	BaseClass      string
	IsAbstract     bool
	ChangeTracking string
	Annotations    []string
}

// NodeID implements Node.
func (n EntityNode) NodeID() string { return n.Name }

// Markup implements Node.
func (n EntityNode) Markup() string {
	name := Escape(n.Name)
	return fmt.Sprintf(`<Node Id="%s" Label="%s" Name="%s" BaseClass="%s" IsAbstract="%s" ChangeTrackingStrategy="%s" Annotations="%s" Category="EntityType" Group="Expanded" />`,
		name, name, name, Escape(n.BaseClass), formatBool(n.IsAbstract), Escape(n.ChangeTracking), joinAnnotations(n.Annotations))
}

// PropertyNode describes a scalar property of an entity.
type PropertyNode struct {
	Entity         string
	Name           string
	Type           string
	Field          string
	Category       PropertyCategory
	MaxLength      string
	ValueGenerated string
	AccessMode     AccessMode
	BeforeSave     SaveBehavior
	AfterSave      SaveBehavior
	Annotations    []string

	IsPrimaryKey       bool
	IsForeignKey       bool
	IsRequired         bool
	IsIndexed          bool
	IsShadow           bool
	IsAlternateKey     bool
	IsConcurrencyToken bool
	IsUnicode          bool
}

// NodeID implements Node.
func (n PropertyNode) NodeID() string { return n.Entity + "." + n.Name }

// Markup implements Node.
func (n PropertyNode) Markup() string {
	name, typ := Escape(n.Name), Escape(n.Type)
	return fmt.Sprintf(`<Node Id="%s" Label="%s (%s)" Name="%s" Category="%s" Type="%s" MaxLength="%s" Field="%s" PropertyAccessMode="%s" BeforeSaveBehavior="%s" AfterSaveBehavior="%s" Annotations="%s" IsPrimaryKey="%s" IsForeignKey="%s" IsRequired="%s" IsIndexed="%s" IsShadow="%s" IsAlternateKey="%s" IsConcurrencyToken="%s" IsUnicode="%s" ValueGenerated="%s" />`,
		Escape(n.NodeID()), name, typ, name, n.Category, typ, Escape(n.MaxLength), Escape(n.Field),
		n.AccessMode, n.BeforeSave, n.AfterSave, joinAnnotations(n.Annotations),
		formatBool(n.IsPrimaryKey), formatBool(n.IsForeignKey), formatBool(n.IsRequired), formatBool(n.IsIndexed),
		formatBool(n.IsShadow), formatBool(n.IsAlternateKey), formatBool(n.IsConcurrencyToken), formatBool(n.IsUnicode),
		Escape(n.ValueGenerated))
}

// NavigationNode describes a relationship-valued property.
type NavigationNode struct {
	Entity       string
	Name         string
	Type         string
	Field        string
	IsCollection bool
	Dependent    string
	Principal    string
	Inverse      string
	AccessMode   AccessMode
}

// NodeID implements Node.
func (n NavigationNode) NodeID() string { return n.Entity + "." + n.Name }

// Category returns the DGML category of the navigation.
func (n NavigationNode) Category() string {
	if n.IsCollection {
		return "Navigation Collection"
	}
	return "Navigation Property"
}

// Label returns the navigation name with its arity suffix.
func (n NavigationNode) Label() string {
	if n.IsCollection {
		return n.Name + " (*)"
	}
	return n.Name + " (1)"
}

// Markup implements Node.
func (n NavigationNode) Markup() string {
	return fmt.Sprintf(`<Node Id="%s" Label="%s" Name="%s" Category="%s" Type="%s" Field="%s" Dependent="%s" Principal="%s" Inverse="%s" PropertyAccessMode="%s" />`,
		Escape(n.NodeID()), Escape(n.Label()), Escape(n.Name), n.Category(), Escape(n.Type), Escape(n.Field),
		Escape(n.Dependent), Escape(n.Principal), Escape(n.Inverse), n.AccessMode)
}

// ContainmentLink connects a parent node to a node it contains.
type ContainmentLink struct {
	Source string
	Target string
}

// Endpoints implements Link.
func (l ContainmentLink) Endpoints() (string, string) { return l.Source, l.Target }

// Markup implements Link.
func (l ContainmentLink) Markup() string {
	return fmt.Sprintf(`<Link Source="%s" Target="%s" Category="Contains" />`, Escape(l.Source), Escape(l.Target))
}

// ForeignKeyLink connects a dependent entity to its principal.
type ForeignKeyLink struct {
	Source        string
	Target        string
	SourceColumns []string
	TargetColumns []string
	IsUnique      bool
	Annotations   []string
}

// Endpoints implements Link.
func (l ForeignKeyLink) Endpoints() (string, string) { return l.Source, l.Target }

// Label returns the relationship cardinality.
func (l ForeignKeyLink) Label() string {
	if l.IsUnique {
		return "1:1"
	}
	return "1:*"
}

// Markup implements Link.
func (l ForeignKeyLink) Markup() string {
	source, target := Escape(l.Source), Escape(l.Target)
	return fmt.Sprintf(`<Link Source="%s" Target="%s" From="%s.%s" To="%s.%s" Name="%s -> %s" Annotations="%s" IsUnique="%s" Label="%s" Category="Foreign Key" />`,
		source, target,
		source, Escape(strings.Join(l.SourceColumns, ",")),
		target, Escape(strings.Join(l.TargetColumns, ",")),
		source, target, joinAnnotations(l.Annotations), formatBool(l.IsUnique), l.Label())
}

func joinAnnotations(lines []string) string {
	return Escape(strings.Join(lines, "\n"))
}
