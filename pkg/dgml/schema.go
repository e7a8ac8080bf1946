package dgml

func categories() []Category {
	return []Category{
		{ID: "Contains", Label: "Contains", IsTag: "True"},
		{ID: "Model", Label: "Model", Background: "#FFC0C0C0", IsTag: "True"},
		{ID: "EntityType", Label: "Entity Type", Background: "#FFFFFFFF", IsTag: "True"},
		{ID: "Property Primary", Label: "Property Primary", Background: "#FF008000", IsTag: "True"},
		{ID: "Property Foreign", Label: "Property Foreign", Background: "#FF0000FF", IsTag: "True"},
		{ID: "Property Required", Label: "Property Required", Background: "#FF000000", IsTag: "True"},
		{ID: "Property Optional", Label: "Property Optional", Background: "#FF808080", IsTag: "True"},
		{ID: "Navigation Property", Label: "Navigation Property", Background: "#FF990000", IsTag: "True"},
		{ID: "Navigation Collection", Label: "Navigation Collection", Background: "#FFFF3232", IsTag: "True"},
		{ID: "Foreign Key", Label: "Foreign Key", Stroke: "#FF0000FF", IsTag: "True"},
	}
}

var (
	stringProperties = []string{
		"AfterSaveBehavior", "Annotations", "BaseClass", "BeforeSaveBehavior",
		"ChangeTrackingStrategy", "Dependent", "Field", "From", "Inverse",
		"MaxLength", "Name", "Principal", "ProductVersion", "PropertyAccessMode",
		"To", "Type", "ValueGenerated",
	}
	boolProperties = []string{
		"IsAbstract", "IsAlternateKey", "IsConcurrencyToken", "IsForeignKey",
		"IsIndexed", "IsPrimaryKey", "IsRequired", "IsShadow", "IsUnicode", "IsUnique",
	}
)

func properties() []Property {
	out := []Property{
		{ID: "Expression", DataType: "System.String"},
		{ID: "GroupLabel", DataType: "System.String"},
		{ID: "Label", Label: "Label", DataType: "System.String"},
		{ID: "TargetType", DataType: "System.Type"},
		{ID: "ValueLabel", DataType: "System.String"},
	}
	for _, id := range stringProperties {
		out = append(out, Property{ID: id, Label: id, DataType: "System.String"})
	}
	for _, id := range boolProperties {
		out = append(out, Property{ID: id, Label: id, DataType: "System.Boolean"})
	}
	return out
}

func styles() []Style {
	style := func(target, label, expression, property, value string) Style {
		return Style{
			TargetType: target,
			GroupLabel: label,
			ValueLabel: "True",
			Condition:  Condition{Expression: expression},
			Setters:    []Setter{{Property: property, Value: value}},
		}
	}
	return []Style{
		style("Node", "Entity Type", "HasCategory('EntityType')", "Background", "#FFFFFFFF"),
		style("Node", "Abstract", "IsAbstract = 'True'", "StrokeDashArray", "2,2"),
		style("Node", "Property Primary", "HasCategory('Property Primary')", "Background", "#FF008000"),
		style("Node", "Property Foreign", "HasCategory('Property Foreign')", "Background", "#FF0000FF"),
		style("Node", "Property Optional", "HasCategory('Property Optional')", "Background", "#FF808080"),
		style("Node", "Property Required", "HasCategory('Property Required')", "Background", "#FF000000"),
		style("Node", "Navigation Property", "HasCategory('Navigation Property')", "Background", "#FF990000"),
		style("Node", "Navigation Collection", "HasCategory('Navigation Collection')", "Background", "#FFFF3232"),
		style("Link", "Foreign Key", "HasCategory('Foreign Key')", "Stroke", "#FF0000FF"),
		style("Link", "Unique", "IsUnique = 'True'", "StrokeThickness", "2"),
	}
}
