package pokeapitest

// Starters returns a small fixture set: the Kanto grass line, a fire starter,
// a pikachu and a gen II entry with id 152.
func Starters() []Fixture {
	return []Fixture{
		{
			ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}, Generation: "generation-i",
			Flavor:    "A strange seed was\nplanted on its\fback at birth.",
			Stats:     map[string]int{"hp": 45, "attack": 49, "defense": 49, "special-attack": 65, "special-defense": 65, "speed": 45},
			Abilities: []string{"overgrow", "chlorophyll"},
			Height:    7, Weight: 69, BaseExp: 64, ChainID: 1,
		},
		{
			ID: 2, Name: "ivysaur", Types: []string{"grass", "poison"}, Generation: "generation-i",
			Stats:  map[string]int{"hp": 60, "attack": 62, "defense": 63, "special-attack": 80, "special-defense": 80, "speed": 60},
			Height: 10, Weight: 130, BaseExp: 142, ChainID: 1,
		},
		{
			ID: 3, Name: "venusaur", Types: []string{"grass", "poison"}, Generation: "generation-i",
			Stats:  map[string]int{"hp": 80, "attack": 82, "defense": 83, "special-attack": 100, "special-defense": 100, "speed": 80},
			Height: 20, Weight: 1000, BaseExp: 263, ChainID: 1,
		},
		{
			ID: 4, Name: "charmander", Types: []string{"fire"}, Generation: "generation-i",
			Stats:  map[string]int{"hp": 39, "attack": 52, "defense": 43, "special-attack": 60, "special-defense": 50, "speed": 65},
			Height: 6, Weight: 85, BaseExp: 62, ChainID: 2,
		},
		{
			ID: 25, Name: "pikachu", Types: []string{"electric"}, Generation: "generation-i",
			Stats:  map[string]int{"hp": 35, "attack": 55, "defense": 40, "special-attack": 50, "special-defense": 50, "speed": 90},
			Height: 4, Weight: 60, BaseExp: 112,
		},
		{
			ID: 50, Name: "diglett", Types: []string{"ground"}, Generation: "generation-i",
			Stats:  map[string]int{"hp": 10, "attack": 55, "defense": 25, "special-attack": 35, "special-defense": 45, "speed": 95},
			Height: 2, Weight: 8, BaseExp: 53,
		},
		{
			ID: 152, Name: "chikorita", Types: []string{"grass"}, Generation: "generation-ii",
			Stats:  map[string]int{"hp": 45, "attack": 49, "defense": 65, "special-attack": 49, "special-defense": 65, "speed": 45},
			Height: 9, Weight: 64, BaseExp: 64,
		},
	}
}

// NewStarterServer serves Starters with the bulbasaur evolution chain.
func NewStarterServer() *Server {
	s := NewServer(Starters()...)
	s.SetChain(1, "bulbasaur", "ivysaur", "venusaur")
	s.SetChain(2, "charmander", "charmeleon", "charizard")
	return s
}
