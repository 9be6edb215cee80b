package scoring

// DefaultVocabulary lists the brand-relevant terms looked up in biographies.
// Terms are matched as lower-case substrings.
var DefaultVocabulary = []string{
	"savon",
	"cosmétique",
	"naturel",
	"bio",
	"artisan",
	"zéro déchet",
	"éco",
	"beauté",
	"soin",
	"peau",
	"fait main",
	"handmade",
	"vegan",
	"cruelty free",
	"clean beauty",
	"routine",
	"selfcare",
	"bien-être",
	"slow",
	"minimalisme",
	"maman",
	"famille",
	"france",
	"français",
}
