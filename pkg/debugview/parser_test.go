package debugview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NilLines(t *testing.T) {
	g, err := Parse(nil, "Ctx")
	require.ErrorIs(t, err, ErrArgumentMissing)
	assert.Nil(t, g)
}

func TestParse_SingleEntity(t *testing.T) {
	lines := []string{
		"Model: ",
		"  EntityType: Samurai",
		"    Properties: ",
		"      Name (string) Required",
	}

	g, err := Parse(lines, "SamuraiContext")
	require.NoError(t, err)

	assert.Equal(t, []string{
		`<Node Id="IModel" Label="SamuraiContext" ChangeTrackingStrategy="ChangeTrackingStrategy.Snapshot" PropertyAccessMode="PropertyAccessMode.Default" ProductVersion="" Annotations="" Category="Model" Group="Expanded" />`,
		`<Node Id="Samurai" Label="Samurai" Name="Samurai" BaseClass="" IsAbstract="False" ChangeTrackingStrategy="ChangeTrackingStrategy.Snapshot" Annotations="" Category="EntityType" Group="Expanded" />`,
		`<Node Id="Samurai.Name" Label="Name (string)" Name="Name" Category="Property Required" Type="string" MaxLength="None" Field="" PropertyAccessMode="PropertyAccessMode.Default" BeforeSaveBehavior="PropertySaveBehavior.Save" AfterSaveBehavior="PropertySaveBehavior.Save" Annotations="" IsPrimaryKey="False" IsForeignKey="False" IsRequired="True" IsIndexed="False" IsShadow="False" IsAlternateKey="False" IsConcurrencyToken="False" IsUnicode="True" ValueGenerated="None" />`,
	}, g.Nodes())
	assert.Equal(t, []string{
		`<Link Source="IModel" Target="Samurai" Category="Contains" />`,
		`<Link Source="Samurai" Target="Samurai.Name" Category="Contains" />`,
	}, g.Links())
}

func TestParse_ModelOnly(t *testing.T) {
	for _, lines := range [][]string{{"Model: "}, {}} {
		g, err := Parse(lines, "Empty")
		require.NoError(t, err)
		require.Len(t, g.Nodes(), 1)
		assert.Contains(t, g.Nodes()[0], `Id="IModel"`)
		assert.Empty(t, g.Links())
	}
}

func TestParse_ModelMetadata(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	m := g.Model()
	assert.Equal(t, "SamuraiContext", m.Label)
	assert.Equal(t, "8.0.0", m.ProductVersion)
	assert.Equal(t, []string{"Relational:MaxIdentifierLength: 128"}, m.Annotations)
	assert.Equal(t, "ChangeTrackingStrategy.Snapshot", m.ChangeTracking)

	g, err = Parse([]string{"Model: ChangeTrackingStrategy.ChangingAndChangedNotifications PropertyAccessMode.Field"}, "X")
	require.NoError(t, err)
	assert.Equal(t, "ChangeTrackingStrategy.ChangingAndChangedNotifications", g.Model().ChangeTracking)
	assert.Equal(t, AccessField, g.Model().AccessMode)
}

func TestParse_ModelNodeFirst(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)
	records := g.NodeRecords()
	require.NotEmpty(t, records)
	assert.Equal(t, ModelID, records[0].NodeID())
}

func TestParse_EmissionOrder(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	var ids []string
	for _, n := range g.NodeRecords() {
		ids = append(ids, n.NodeID())
	}
	assert.Equal(t, []string{
		"IModel",
		"Samurai", "Samurai.Id", "Samurai.Quotes", "Samurai.Name",
		"Quote", "Quote.Id", "Quote.Samurai", "Quote.SamuraiId", "Quote.Text",
	}, ids)

	var links []string
	for _, l := range g.LinkRecords() {
		source, target := l.Endpoints()
		links = append(links, source+">"+target)
	}
	assert.Equal(t, []string{
		"IModel>Samurai",
		"Samurai>Samurai.Quotes", "Samurai>Samurai.Id", "Samurai>Samurai.Name",
		"IModel>Quote",
		"Quote>Quote.Samurai", "Quote>Quote.Id", "Quote>Samurai", "Quote>Quote.SamuraiId", "Quote>Quote.Text",
	}, links)
}

func TestParse_NavigationDeduplicated(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	count := 0
	for _, n := range g.Nodes() {
		if strings.Contains(n, `Id="Samurai.Quotes"`) {
			count++
		}
	}
	assert.Equal(t, 1, count, "navigation rescanned for each property must appear once")
	assert.Len(t, g.ForeignKeys(), 1)
}

func TestParse_CollectionNavigation(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	navs := g.Navigations("Samurai")
	require.Len(t, navs, 1)
	nav := navs[0]
	assert.Equal(t, "Navigation Collection", nav.Category())
	assert.True(t, strings.HasSuffix(nav.Label(), "(*)"))
	assert.Equal(t, "<Quotes>k__BackingField", nav.Field)
	assert.Equal(t, "Quote", nav.Type)
	assert.Equal(t, "Quote", nav.Dependent)
	assert.Equal(t, "Samurai", nav.Inverse)
	assert.Contains(t, nav.Markup(), `Field="&lt;Quotes&gt;k__BackingField"`)

	ref := g.Navigations("Quote")
	require.Len(t, ref, 1)
	assert.Equal(t, "Navigation Property", ref[0].Category())
	assert.Equal(t, "Samurai (1)", ref[0].Label())
	assert.Equal(t, "Samurai", ref[0].Principal)
}

func TestParse_Properties(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	props := g.Properties("Quote")
	require.Len(t, props, 3)

	id := props[0]
	assert.Equal(t, CategoryPrimary, id.Category, "primary key wins over required")
	assert.Equal(t, SaveBehaviorThrow, id.AfterSave)
	assert.Equal(t, "ValueGenerated.OnAdd", id.ValueGenerated)

	fk := props[1]
	assert.Equal(t, CategoryForeign, fk.Category)
	assert.True(t, fk.IsIndexed)

	text := props[2]
	assert.Equal(t, CategoryOptional, text.Category)
	assert.Equal(t, "200", text.MaxLength)
	assert.False(t, text.IsUnicode)

	samuraiID := g.Properties("Samurai")[0]
	assert.Equal(t, []string{"SqlServer:ValueGenerationStrategy: IdentityColumn"}, samuraiID.Annotations)
}

func TestParse_EntityAnnotations(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	entities := g.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, []string{"Relational:TableName: Samurais"}, entities[0].Annotations)
	assert.Equal(t, []string{"Relational:TableName: Quotes"}, entities[1].Annotations)
}

func TestParse_ForeignKey(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	fks := g.ForeignKeys()
	require.Len(t, fks, 1)
	fk := fks[0]
	assert.Equal(t, "Quote", fk.Source)
	assert.Equal(t, "Samurai", fk.Target)
	assert.Equal(t, []string{"SamuraiId"}, fk.SourceColumns)
	assert.Equal(t, []string{"Id"}, fk.TargetColumns)
	assert.Equal(t, []string{"Relational:Name: FK_Quotes_Samurais_SamuraiId"}, fk.Annotations)
	assert.Equal(t,
		`<Link Source="Quote" Target="Samurai" From="Quote.SamuraiId" To="Samurai.Id" Name="Quote -> Samurai" Annotations="Relational:Name: FK_Quotes_Samurais_SamuraiId" IsUnique="False" Label="1:*" Category="Foreign Key" />`,
		fk.Markup())
}

func TestParse_EntityHeaderMetadata(t *testing.T) {
	lines := []string{
		"Model: ",
		"  EntityType: Horse Base: Animal ChangeTrackingStrategy.ChangedNotifications",
		"    Properties: ",
		"      Id (int) Required PK",
		"  EntityType: Animal Abstract",
		"    Properties: ",
		"      Id (int) Required PK",
	}
	g, err := Parse(lines, "Zoo")
	require.NoError(t, err)

	entities := g.Entities()
	require.Len(t, entities, 2)

	horse := entities[0]
	assert.Equal(t, "Horse", horse.Name)
	assert.Equal(t, "Animal", horse.BaseClass)
	assert.Equal(t, "ChangeTrackingStrategy.ChangedNotifications", horse.ChangeTracking)

	// The last entity is flushed after the loop without its header metadata.
	animal := entities[1]
	assert.Equal(t, "Animal", animal.Name)
	assert.False(t, animal.IsAbstract)
	assert.Equal(t, defaultChangeTracking, animal.ChangeTracking)
}

func TestParse_ZeroIndentedEntities(t *testing.T) {
	lines := []string{
		"Model:",
		"EntityType: Samurai",
		"  Properties:",
		"    Id (int) Required PK",
		"    Name (string) Required",
		"  Keys:",
		"    Id PK",
		"EntityType: Battle",
		"  Properties:",
		"    Id (int) Required PK",
	}
	g, err := Parse(lines, "Ctx")
	require.NoError(t, err)

	assert.Len(t, g.Entities(), 2)
	assert.Len(t, g.Properties("Samurai"), 2)
	assert.Len(t, g.Properties("Battle"), 1)
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	lines := []string{
		"Model: ",
		"  EntityType:",
		"    Properties: ",
		"      Orphan (int)",
		"  EntityType: Samurai",
		"    Properties: ",
		"      Lonely",
		"      Name (string)",
		"    Navigations: ",
		"      Broken",
		"    Foreign keys: ",
		"      Samurai {'X'}",
	}
	g, err := Parse(lines, "Ctx")
	require.NoError(t, err)

	assert.Len(t, g.Entities(), 1)
	props := g.Properties("Samurai")
	require.Len(t, props, 1)
	assert.Equal(t, "Name", props[0].Name)
	assert.Empty(t, g.Navigations("Samurai"))
	assert.Empty(t, g.ForeignKeys())
}

func TestParse_EscapesAttributes(t *testing.T) {
	lines := []string{
		"Model: ",
		"  EntityType: Tag",
		"    Properties: ",
		`      Values (_values, Dictionary<string, int>) Required`,
	}
	g, err := Parse(lines, `Ctx "A&B"`)
	require.NoError(t, err)

	assert.Contains(t, g.Nodes()[0], `Label="Ctx &quot;A&amp;B&quot;"`)
	props := g.Properties("Tag")
	require.Len(t, props, 1)
	assert.Equal(t, "Dictionary<string,int>", props[0].Type)
	assert.Equal(t, "_values", props[0].Field)
	assert.Contains(t, props[0].Markup(), `Type="Dictionary&lt;string,int&gt;"`)
}

func TestParse_Idempotent(t *testing.T) {
	lines := splitLines(samuraiView)
	first, err := Parse(lines, "SamuraiContext")
	require.NoError(t, err)
	second, err := Parse(lines, "SamuraiContext")
	require.NoError(t, err)

	assert.Equal(t, first.Nodes(), second.Nodes())
	assert.Equal(t, first.Links(), second.Links())
}

func TestParse_NoDuplicates(t *testing.T) {
	g, err := Parse(splitLines(samuraiView), "SamuraiContext")
	require.NoError(t, err)

	for name, seq := range map[string][]string{"nodes": g.Nodes(), "links": g.Links()} {
		seen := make(map[string]bool)
		for _, s := range seq {
			if seen[s] {
				t.Errorf("duplicate %s entry: %s", name, s)
			}
			seen[s] = true
		}
	}
}
