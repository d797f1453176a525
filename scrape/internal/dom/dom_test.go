package dom

import (
	"testing"
)

const page = `<html><body>
	<div id="results">
		<div class="product-item featured">
			<h3 class="product-name">Arroz Agulha 1kg</h3>
			<span class="price">1.200,50 Kz</span>
			<a href="/pt/arroz" title="Arroz Agulha 1kg"><img src="/img/arroz.jpg"></a>
		</div>
		<div class="produto">
			<h4 class="nome-produto">Feijão Catarino</h4>
			<span class="preco">900 Kz</span>
		</div>
	</div>
	<div class="banner"><span class="price">oferta</span></div>
</body></html>`

func TestQueryAll_ClassSelector(t *testing.T) {
	// WHAT: A class selector matches every element carrying that class.
	// WHY: Listing containers are identified purely by class.
	root, err := Parse([]byte(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	items := QueryAll(root, ".product-item")
	if len(items) != 1 {
		t.Errorf(".product-item: got %d, want 1", len(items))
	}
}

func TestQueryAll_CommaGroupsUnion(t *testing.T) {
	// WHAT: Comma-separated alternatives union their matches without duplicates.
	// WHY: Store selectors list several known markup variants per field.
	root, _ := Parse([]byte(page))

	items := QueryAll(root, ".product-item, .produto")
	if len(items) != 2 {
		t.Errorf("union: got %d, want 2", len(items))
	}

	dup := QueryAll(root, ".product-item, div.product-item")
	if len(dup) != 1 {
		t.Errorf("duplicates not removed: got %d", len(dup))
	}
}

func TestQuery_ScopedToSubtree(t *testing.T) {
	// WHAT: Querying inside an item node only sees that item's descendants.
	// WHY: Field extraction runs per listing container; leaking across items mixes products.
	root, _ := Parse([]byte(page))
	items := QueryAll(root, ".product-item, .produto")

	first := Text(Query(items[0], ".product-name, .nome-produto, h3, h4"))
	second := Text(Query(items[1], ".product-name, .nome-produto, h3, h4"))
	if first != "Arroz Agulha 1kg" || second != "Feijão Catarino" {
		t.Errorf("names = %q / %q", first, second)
	}
}

func TestQuery_AttributeSelector(t *testing.T) {
	// WHAT: [attr] presence and [attr=val] equality both match.
	// WHY: Some stores only expose the product name in a title attribute.
	root, _ := Parse([]byte(page))

	if n := Query(root, "a[title]"); Attr(n, "title") != "Arroz Agulha 1kg" {
		t.Errorf("a[title] = %q", Attr(n, "title"))
	}
	if n := Query(root, `a[title="Arroz Agulha 1kg"]`); n == nil {
		t.Error("a[title=val] did not match")
	}
	if n := Query(root, `a[title="nope"]`); n != nil {
		t.Error("a[title=val] matched the wrong value")
	}
}

func TestQuery_AttributeValueWithSpaces(t *testing.T) {
	// WHAT: A quoted attribute value containing spaces stays one selector part,
	// alone and inside a descendant chain.
	// WHY: Store search boxes are located by placeholder/title text, which is
	// full of spaces ("O que procura?").
	root, _ := Parse([]byte(page))

	n := Query(root, `a[title="Arroz Agulha 1kg"]`)
	if n == nil {
		t.Fatal("quoted value with spaces did not match")
	}
	if got := Attr(n, "href"); got != "/pt/arroz" {
		t.Errorf("matched wrong node: href = %q", got)
	}

	if Query(root, `#results a[title="Arroz Agulha 1kg"]`) == nil {
		t.Error("descendant chain split the quoted value")
	}
	if Query(root, `a[title="Arroz Errado 1kg"]`) != nil {
		t.Error("wrong quoted value matched")
	}
}

func TestQuery_DescendantCombinator(t *testing.T) {
	// WHAT: "parent child" requires the child under a matching ancestor.
	// WHY: Scoping away navigation chrome sharing class names with listings.
	root, _ := Parse([]byte(page))

	nodes := QueryAll(root, "#results .price")
	if len(nodes) != 1 || Text(nodes[0]) != "1.200,50 Kz" {
		t.Errorf("#results .price: %d nodes", len(nodes))
	}
}

func TestText_CollapsesWhitespace(t *testing.T) {
	// WHAT: Text concatenates descendant text nodes with whitespace runs collapsed.
	// WHY: Rendered markup is full of indentation the name must not carry.
	root, _ := Parse([]byte("<div><span>  Arroz \n\t Agulha</span> <b>1kg </b></div>"))
	if got := Text(Query(root, "div")); got != "Arroz Agulha 1kg" {
		t.Errorf("text = %q", got)
	}
}

func TestTextAndAttr_NilSafe(t *testing.T) {
	// WHAT: Text(nil) and Attr(nil, ...) return "".
	// WHY: Query returns nil on misses and extraction chains directly on it.
	if Text(nil) != "" || Attr(nil, "href") != "" {
		t.Error("nil node should yield empty string")
	}
}
