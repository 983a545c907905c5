package usecase

import "strings"

// Word lists shared by the extractor, classifier, query builder and matcher.
// Values are lowercase.

// placeholderNames are listing values that never identify a real subject
var placeholderNames = map[string]bool{
	"multi":           true,
	"various":         true,
	"n/a":             true,
	"multiple":        true,
	"see description": true,
	"assorted":        true,
}

// placeholderProducts are "product" values that describe packaging, not a set
var placeholderProducts = map[string]bool{
	"single":          true,
	"single - insert": true,
	"insert":          true,
	"box":             true,
	"pack":            true,
	"case":            true,
}

// invalidSets are set labels too generic to narrow a catalog search
var invalidSets = map[string]bool{
	"single":     true,
	"lot":        true,
	"set":        true,
	"bundle":     true,
	"collection": true,
}

// genericFeatures carry no variant information
var genericFeatures = map[string]bool{
	"normal":   true,
	"standard": true,
	"regular":  true,
	"common":   true,
}

// hypeWords are seller adjectives stripped from titles before parsing
var hypeWords = []string{
	"rare", "invest", "hot", "fire", "gem", "mint", "look", "wow", "must", "see",
	"read", "nice", "great", "beautiful", "gorgeous", "stunning", "pristine",
	"perfect", "excellent", "amazing", "incredible", "awesome",
}

// brandKeywords separate set/brand tokens from player-name tokens in a query
var brandKeywords = map[string]bool{
	// Card manufacturers
	"topps": true, "panini": true, "upper": true, "deck": true, "bowman": true,
	"fleer": true, "donruss": true, "score": true, "leaf": true,
	// Set types
	"chrome": true, "prizm": true, "select": true, "mosaic": true, "optic": true,
	"absolute": true, "prestige": true, "contenders": true, "national": true,
	"treasures": true, "immaculate": true, "spectra": true, "obsidian": true,
	"origins": true, "phoenix": true, "certified": true, "limited": true,
	"playoff": true, "classics": true, "legacy": true, "clearly": true,
	"stadium": true, "club": true,
	// Parallels/variants
	"refractor": true, "parallel": true, "auto": true, "autograph": true,
	"rookie": true, "base": true, "insert": true, "gold": true, "silver": true,
	"bronze": true, "red": true, "blue": true, "green": true, "orange": true,
	"purple": true, "pink": true, "black": true, "white": true, "aqua": true,
	"shimmer": true, "holo": true, "holographic": true, "foil": true, "prism": true,
	// Sports
	"football": true, "basketball": true, "baseball": true, "hockey": true, "soccer": true,
	// Non-sports categories
	"marvel": true, "dc": true, "pokemon": true, "magic": true, "yugioh": true,
	"disney": true, "star": true, "wars": true, "trek": true, "anime": true,
	"manga": true, "gaming": true, "entertainment": true, "movie": true,
	"film": true, "television": true, "tv": true, "universe": true,
	"annual": true, "series": true,
}

// titleNoiseWords are stripped along with brand keywords when a title
// is reduced to its subject name
var titleNoiseWords = map[string]bool{
	"card": true, "cards": true, "rc": true, "graded": true, "grade": true,
	"slab": true, "slabbed": true, "sp": true, "ssp": true, "lot": true,
	"psa": true, "bgs": true, "cgc": true, "sgc": true, "tag": true,
	"csg": true, "hga": true, "ags": true, "gma": true, "ksa": true,
	"cbcs": true, "pgx": true, "the": true, "of": true,
}

// setBrands start a set phrase in a title; setProductWords may follow them
var setBrands = []string{
	"upper deck", "topps", "panini", "bowman", "donruss", "fleer", "leaf",
	"score", "skybox", "o-pee-chee", "stadium club", "impel", "pro set",
	"pacific",
}

var setProductWords = map[string]bool{
	"chrome": true, "prizm": true, "select": true, "mosaic": true, "optic": true,
	"finest": true, "heritage": true, "update": true, "series": true,
	"stadium": true, "club": true, "certified": true, "contenders": true,
	"prestige": true, "absolute": true, "spectra": true, "obsidian": true,
	"immaculate": true, "national": true, "treasures": true, "sapphire": true,
	"draft": true, "sterling": true, "tribute": true, "allen": true,
	"ginter": true, "&": true, "gypsy": true, "queen": true, "archives": true,
	"flagship": true, "cosmic": true, "hoops": true, "elite": true,
	"rated": true, "rookies": true, "phoenix": true, "origins": true,
	"legacy": true, "classics": true, "platinum": true, "1": true, "2": true,
}

// tcgSetPhrases are well-known trading-card-game set names
var tcgSetPhrases = []string{
	"base set", "jungle", "fossil", "team rocket", "gym heroes", "gym challenge",
	"neo genesis", "neo discovery", "neo revelation", "neo destiny",
	"evolving skies", "hidden fates", "shining fates", "celebrations",
}

// tradingCardBrands mark a listing as a card even when other fields look like a comic
var tradingCardBrands = []string{
	"topps", "panini", "upper deck", "bowman", "donruss", "fleer", "score",
	"leaf", "maxx", "press pass", "skybox", "impel", "o-pee-chee", "pro set",
	"pacific",
}

// comicOnlyGraders only grade comics
var comicOnlyGraders = map[string]bool{
	"CBCS": true,
	"PGX":  true,
}

var comicPublishers = []string{
	"marvel", "dc comics", "dc", "image", "dark horse", "idw", "boom",
	"dynamite", "valiant", "archie", "oni press", "aftershock", "scout",
	"zenescope", "ablaze", "titan",
}

var comicKeywords = []string{
	"comic", "graphic novel", "variant cover", "newsstand", "direct edition",
	"first print", "1st print", "cgc signature",
}

// comicSeries are long-running titles recognised in free text, longest
// names first so "Amazing Spider-Man" wins over "Spider-Man"
var comicSeries = []struct {
	Name      string
	Publisher string
}{
	{"Giant-Size X-Men", "Marvel"},
	{"Amazing Spider-Man", "Marvel"},
	{"Spectacular Spider-Man", "Marvel"},
	{"Teenage Mutant Ninja Turtles", "Mirage"},
	{"Incredible Hulk", "Marvel"},
	{"Uncanny X-Men", "Marvel"},
	{"Fantastic Four", "Marvel"},
	{"Detective Comics", "DC Comics"},
	{"Action Comics", "DC Comics"},
	{"Captain America", "Marvel"},
	{"Green Lantern", "DC Comics"},
	{"Justice League", "DC Comics"},
	{"Wonder Woman", "DC Comics"},
	{"Walking Dead", "Image"},
	{"New Mutants", "Marvel"},
	{"Spider-Man", "Marvel"},
	{"Daredevil", "Marvel"},
	{"Wolverine", "Marvel"},
	{"Avengers", "Marvel"},
	{"Iron Man", "Marvel"},
	{"Deadpool", "Marvel"},
	{"Superman", "DC Comics"},
	{"X-Men", "Marvel"},
	{"Batman", "DC Comics"},
	{"Venom", "Marvel"},
	{"Spawn", "Image"},
}

// recognizedSports are sport values that mark a listing as a sports card
var recognizedSports = []string{
	"baseball", "football", "basketball", "hockey", "soccer", "golf", "tennis",
	"boxing", "wrestling", "racing", "mma", "ufc",
}

// garbageSports are sport values sellers use when the field does not apply
var garbageSports = map[string]bool{
	"raw":         true,
	"n/a":         true,
	"na":          true,
	"none":        true,
	"other":       true,
	"unspecified": true,
}

var tcgGames = []string{
	"pokemon", "pokémon", "magic", "yugioh", "yu-gi-oh", "digimon", "lorcana",
	"one piece", "flesh and blood", "metazoo", "weiss schwarz",
}

var nonSportsKeywords = []string{
	"marvel", "pokemon", "pokémon", "magic", "yugioh", "digimon", "dragon ball",
	"garbage pail", "lorcana", "one piece", "star wars", "disney", "dc comics",
	"wizards of the coast", "wizards", "konami", "bandai", "ravensburger",
}

// boilerplateNames are catalog rows that are navigation, not items
var boilerplateNames = map[string]bool{
	"english":  true,
	"deutsch":  true,
	"español":  true,
	"français": true,
	"italiano": true,
	"日本語":      true,
}

var boilerplatePrefixes = []string{"see all", "view all"}

// containsAny reports whether s contains any of the needles
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(s, n) {
			return true
		}
	}
	return false
}
