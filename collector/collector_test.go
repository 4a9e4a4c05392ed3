package collector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olafglad/react-state-map-sub000/ir"
)

func collectOne(t *testing.T, source string) *ir.Component {
	t.Helper()
	components := collectAll(t, source)
	require.Len(t, components, 1)
	return components[0]
}

func collectAll(t *testing.T, source string) []*ir.Component {
	t.Helper()
	components, err := New(nil).CollectSource(context.Background(), []byte(source), "test.jsx")
	require.NoError(t, err)
	return components
}

func TestCollectSource_FunctionComponent(t *testing.T) {
	component := collectOne(t, `
export function App() {
  const [cart, setCart] = useState([]);
  return <CartPanel cart={cart} />;
}
`)
	assert.Equal(t, "App", component.Name)
	assert.Equal(t, "test.jsx", component.FilePath)

	require.Len(t, component.DeclaredState, 1)
	assert.Equal(t, "cart", component.DeclaredState[0].Name)
	assert.Equal(t, ir.OriginLocalState, component.DeclaredState[0].Kind)

	require.Len(t, component.ChildInvocations, 1)
	invocation := component.ChildInvocations[0]
	assert.Equal(t, "CartPanel", invocation.Callee)
	require.Len(t, invocation.Args, 1)
	assert.Equal(t, "cart", invocation.Args[0].Name)
	assert.Equal(t, ir.ArgIdentifier, invocation.Args[0].Kind)
	assert.Equal(t, "cart", invocation.Args[0].Value)
}

func TestCollectSource_ArrowComponentWithRenames(t *testing.T) {
	component := collectOne(t, `
const UserCard = ({ user, id: userId, compact = false }) => {
  const uid = userId;
  return (
    <div className="card">
      <Avatar user={user} uid={uid} />
    </div>
  );
};
`)
	assert.Equal(t, "UserCard", component.Name)

	var propNames []string
	for _, prop := range component.DeclaredProps {
		propNames = append(propNames, prop.Name)
	}
	assert.Equal(t, []string{"user", "id", "compact"}, propNames)

	require.Len(t, component.AliasSeeds, 2)
	assert.Equal(t, ir.AliasSeed{FromName: "id", ToName: "userId", Kind: ir.RenameDestructure, Line: component.AliasSeeds[0].Line}, component.AliasSeeds[0])
	assert.Equal(t, "userId", component.AliasSeeds[1].FromName)
	assert.Equal(t, "uid", component.AliasSeeds[1].ToName)
	assert.Equal(t, ir.RenameAssignment, component.AliasSeeds[1].Kind)

	require.Len(t, component.ChildInvocations, 1)
	assert.Equal(t, "Avatar", component.ChildInvocations[0].Callee)

	assert.True(t, component.Usage("user").Forwarded)
	assert.True(t, component.Usage("id").Transformed)
	assert.False(t, component.Usage("id").Consumed)
	assert.False(t, component.Usage("compact").Consumed)
}

func TestCollectSource_WholePropsParameter(t *testing.T) {
	component := collectOne(t, `
function Toolbar(props) {
  return <Button label={props.label} onClick={props.onClick} />;
}
`)
	var propNames []string
	for _, prop := range component.DeclaredProps {
		propNames = append(propNames, prop.Name)
	}
	assert.Equal(t, []string{"label", "onClick"}, propNames)
	assert.True(t, component.Usage("label").Forwarded)
	assert.True(t, component.Usage("onClick").Forwarded)

	require.Len(t, component.ChildInvocations, 1)
	args := component.ChildInvocations[0].Args
	require.Len(t, args, 2)
	assert.Equal(t, "label", args[0].Value)
	assert.Equal(t, "onClick", args[1].Value)
}

func TestCollectSource_ProviderAndConsumer(t *testing.T) {
	components := collectAll(t, `
export const App = () => {
  const theme = useTheme();
  return (
    <ThemeContext.Provider value={theme}>
      <Header />
    </ThemeContext.Provider>
  );
};

function Header() {
  const { theme, locale } = useContext(ThemeContext);
  return <Title theme={theme} locale={locale} />;
}
`)
	require.Len(t, components, 2)

	app := components[0]
	assert.Equal(t, "App", app.Name)
	require.Len(t, app.ContextProviders, 1)
	assert.Equal(t, "ThemeContext", app.ContextProviders[0].Name)
	assert.Contains(t, app.ContextProviders[0].ValueExpr, "theme")
	require.Len(t, app.DeclaredState, 1)
	assert.Equal(t, ir.OriginCustomProvider, app.DeclaredState[0].Kind)
	require.Len(t, app.ChildInvocations, 1)
	assert.Equal(t, "Header", app.ChildInvocations[0].Callee)

	header := components[1]
	assert.Equal(t, "Header", header.Name)
	require.Len(t, header.ContextConsumers, 1)
	use := header.ContextConsumers[0]
	assert.Equal(t, "ThemeContext", use.Name)
	assert.Equal(t, []string{"theme", "locale"}, use.Fields)
	require.Len(t, header.ChildInvocations, 1)
	require.Len(t, header.ChildInvocations[0].Args, 2)
	assert.Equal(t, "theme", header.ChildInvocations[0].Args[0].Value)
	assert.Equal(t, "locale", header.ChildInvocations[0].Args[1].Value)
}

func TestCollectSource_ProviderWrapperComponent(t *testing.T) {
	component := collectOne(t, `
export function Root() {
  return (
    <ThemeProvider value={palette}>
      <App />
    </ThemeProvider>
  );
}
`)
	require.Len(t, component.ContextProviders, 1)
	assert.Equal(t, "ThemeProvider", component.ContextProviders[0].Name)

	var callees []string
	for _, invocation := range component.ChildInvocations {
		callees = append(callees, invocation.Callee)
	}
	assert.Equal(t, []string{"ThemeProvider", "App"}, callees)
}

func TestCollectSource_HookVocabulary(t *testing.T) {
	component := collectOne(t, `
function Dashboard() {
  const [items, dispatch] = useReducer(reducer, []);
  const total = useSelector(selectTotal);
  const { filters } = useFilters();
  return <ItemList items={items} total={total} filters={filters} />;
}
`)
	require.Len(t, component.DeclaredState, 3)
	kinds := map[string]ir.OriginKind{}
	for _, decl := range component.DeclaredState {
		kinds[decl.Name] = decl.Kind
	}
	assert.Equal(t, ir.OriginReducerState, kinds["items"])
	assert.Equal(t, ir.OriginStoreSelector, kinds["total"])
	assert.Equal(t, ir.OriginCustomProvider, kinds["filters"])
}

func TestCollectSource_ObjectLiteralAndSpreadArgs(t *testing.T) {
	component := collectOne(t, `
const Form = ({ fields, active }) => (
  <FormFields formData={{ first: fields.first, active }} meta={fields} />
);
`)
	require.Len(t, component.ChildInvocations, 1)
	args := component.ChildInvocations[0].Args
	require.Len(t, args, 2)

	assert.Equal(t, "formData", args[0].Name)
	assert.Equal(t, ir.ArgLiteralAggregate, args[0].Kind)
	assert.Equal(t, []string{"first", "active"}, args[0].Fields)

	assert.Equal(t, "meta", args[1].Name)
	assert.Equal(t, ir.ArgIdentifier, args[1].Kind)
	assert.Equal(t, "fields", args[1].Value)

	usage := component.Usage("fields")
	assert.True(t, usage.Consumed)
	assert.True(t, usage.Forwarded)
	assert.True(t, component.Usage("active").Forwarded)
}

func TestCollectSource_SpreadAttribute(t *testing.T) {
	component := collectOne(t, `
function Wrapper(props) {
  const rest = props.extras;
  return <Inner {...rest} />;
}
`)
	require.Len(t, component.ChildInvocations, 1)
	args := component.ChildInvocations[0].Args
	require.Len(t, args, 1)
	assert.Equal(t, ir.ArgSpread, args[0].Kind)
	assert.Equal(t, "rest", args[0].Name)
}

func TestCollectSource_MemoWrappedComponent(t *testing.T) {
	component := collectOne(t, `
export const Badge = memo(({ label }) => <span>{label}</span>);
`)
	assert.Equal(t, "Badge", component.Name)
	require.Len(t, component.DeclaredProps, 1)
	assert.Equal(t, "label", component.DeclaredProps[0].Name)
	assert.True(t, component.Usage("label").Consumed)
}

func TestCollectSource_NonComponentsIgnored(t *testing.T) {
	components := collectAll(t, `
function formatDate(value) {
  return value.toString();
}

const helper = (x) => x + 1;

const config = { retries: 3 };
`)
	assert.Empty(t, components)
}

func TestMatches(t *testing.T) {
	collector := New(nil)

	assert.True(t, collector.matches("App.jsx"))
	assert.True(t, collector.matches("grid.tsx"))
	assert.False(t, collector.matches("App.test.jsx"))
	assert.False(t, collector.matches("App.spec.tsx"))
	assert.False(t, collector.matches("styles.css"))
	assert.False(t, collector.matches("util.js"))

	assert.True(t, collector.excluded("node_modules"))
	assert.True(t, collector.excluded("dist"))
	assert.False(t, collector.excluded("src"))
}

func TestCollect_WalksTree(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "lib"), 0o755))

	app := []byte(`export function App() { return <Home />; }`)
	home := []byte(`export function Home() { return <div />; }`)
	skipped := []byte(`export function Ignored() { return <div />; }`)

	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "App.jsx"), app, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "Home.jsx"), home, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "App.test.jsx"), skipped, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "lib", "Lib.jsx"), skipped, 0o644))

	components, failures, err := New(nil).Collect(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, failures)

	var names []string
	for _, component := range components {
		names = append(names, component.Name)
	}
	assert.Equal(t, []string{"App", "Home"}, names)
}
