package scrape

// StapleTerms is the fixed vocabulary of staple grocery searches a full
// scrape runs for every store.
var StapleTerms = []string{
	"arroz",
	"feijão",
	"açúcar",
	"óleo",
	"farinha",
	"massa",
	"leite",
	"ovos",
	"pão",
	"carne",
	"peixe",
	"frango",
	"batata",
	"cebola",
	"tomate",
}
