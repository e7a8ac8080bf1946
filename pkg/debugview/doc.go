// Package debugview parses the textual debug view of an EF Core model into
// DGML node and link markup.
//
// The debug view is an indentation-based dump:
//
//	Model:
//	  EntityType: Samurai
//	    Properties:
//	      Id (int) Required PK AfterSave:Throw ValueGenerated.OnAdd
//	      Name (string) Required
//	    Navigations:
//	      Quotes (<Quotes>k__BackingField, List<Quote>) Collection ToDependent Quote Inverse: Samurai
//	    Keys:
//	      Id PK
//	Annotations:
//	  ProductVersion: 8.0.0
//
// Parse performs a single forward pass over the lines and returns a Graph
// whose Nodes and Links render the markup fragments that go inside a DGML
// document's <Nodes> and <Links> containers. Unrecognized lines are skipped;
// the only error is a nil line sequence.
package debugview
