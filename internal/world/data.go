package world

// Default is the catalog of public regions, data centers and worlds.
var Default = NewCatalog([]*Region{
	{
		Name: "North America",
		ID:   "North-America",
		DataCenters: []*DataCenter{
			{Name: "Aether", ID: "Aether", Worlds: []string{
				"Adamantoise", "Cactuar", "Faerie", "Gilgamesh",
				"Jenova", "Midgardsormr", "Sargatanas", "Siren",
			}},
			{Name: "Crystal", ID: "Crystal", Worlds: []string{
				"Balmung", "Brynhildr", "Coeurl", "Diabolos",
				"Goblin", "Malboro", "Mateus", "Zalera",
			}},
			{Name: "Primal", ID: "Primal", Worlds: []string{
				"Behemoth", "Excalibur", "Exodus", "Famfrit",
				"Hyperion", "Lamia", "Leviathan", "Ultros",
			}},
			{Name: "Dynamis", ID: "Dynamis", Worlds: []string{
				"Halicarnassus", "Maduin", "Marilith", "Seraph",
				"Cuchulainn", "Golem", "Kraken", "Rafflesia",
			}},
		},
	},
	{
		Name: "Europe",
		ID:   "Europe",
		DataCenters: []*DataCenter{
			{Name: "Chaos", ID: "Chaos", Worlds: []string{
				"Cerberus", "Louisoix", "Moogle", "Omega",
				"Phantom", "Ragnarok", "Sagittarius", "Spriggan",
			}},
			{Name: "Light", ID: "Light", Worlds: []string{
				"Alpha", "Lich", "Odin", "Phoenix",
				"Raiden", "Shiva", "Twintania", "Zodiark",
			}},
		},
	},
	{
		Name: "Japan",
		ID:   "Japan",
		DataCenters: []*DataCenter{
			{Name: "Elemental", ID: "Elemental", Worlds: []string{
				"Aegis", "Atomos", "Carbuncle", "Garuda",
				"Gungnir", "Kujata", "Tonberry", "Typhon",
			}},
			{Name: "Gaia", ID: "Gaia", Worlds: []string{
				"Alexander", "Bahamut", "Durandal", "Fenrir",
				"Ifrit", "Ridill", "Tiamat", "Ultima",
			}},
			{Name: "Mana", ID: "Mana", Worlds: []string{
				"Anima", "Asura", "Chocobo", "Hades",
				"Ixion", "Masamune", "Pandaemonium", "Titan",
			}},
			{Name: "Meteor", ID: "Meteor", Worlds: []string{
				"Belias", "Mandragora", "Ramuh", "Shinryu",
				"Unicorn", "Valefor", "Yojimbo", "Zeromus",
			}},
		},
	},
	{
		Name: "Oceania",
		ID:   "Oceania",
		DataCenters: []*DataCenter{
			{Name: "Materia", ID: "Materia", Worlds: []string{
				"Bismarck", "Ravana", "Sephirot", "Sophia", "Zurvan",
			}},
		},
	},
})
