package debugview

import "strings"

// samuraiView is a two-entity debug view in the layout EF Core 8 prints.
const samuraiView = `Model: 
  EntityType: Samurai
    Properties: 
      Id (int) Required PK AfterSave:Throw ValueGenerated.OnAdd
        Annotations: 
          SqlServer:ValueGenerationStrategy: IdentityColumn
      Name (string)
    Navigations: 
      Quotes (<Quotes>k__BackingField, List<Quote>) Collection ToDependent Quote Inverse: Samurai
    Keys: 
      Id PK
    Annotations: 
      Relational:TableName: Samurais
  EntityType: Quote
    Properties: 
      Id (int) Required PK AfterSave:Throw ValueGenerated.OnAdd
      SamuraiId (int) Required FK Index
      Text (string) MaxLength(200) Ansi
    Navigations: 
      Samurai (<Samurai>k__BackingField, Samurai) ToPrincipal Samurai Inverse: Quotes
    Keys: 
      Id PK
    Foreign keys: 
      Quote {'SamuraiId'} -> Samurai {'Id'} ToDependent: Quotes ToPrincipal: Samurai Cascade
        Annotations: 
          Relational:Name: FK_Quotes_Samurais_SamuraiId
    Indexes: 
      SamuraiId
    Annotations: 
      Relational:TableName: Quotes
Annotations: 
  ProductVersion: 8.0.0
  Relational:MaxIdentifierLength: 128`

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
