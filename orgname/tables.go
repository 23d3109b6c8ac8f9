package orgname

// longFormAcronyms maps the long-form names people type to the acronym the
// institution is actually known by. Keys are lowercase.
var longFormAcronyms = map[string]string{
	"arbeids- og velferdsetaten":                "NAV",
	"arbeids- og velferdsdirektoratet":          "NAV",
	"statistisk sentralbyrå":                    "SSB",
	"folkehelseinstituttet":                     "FHI",
	"direktoratet for e-helse":                  "E-HELSE",
	"norsk helsenett":                           "NHN",
	"digitaliseringsdirektoratet":               "DIGDIR",
	"direktoratet for forvaltning og ikt":       "DIFI",
	"skatteetaten":                              "SKE",
	"politiets ikt-tjenester":                   "PIT",
	"politidirektoratet":                        "POD",
	"utlendingsdirektoratet":                    "UDI",
	"barne-, ungdoms- og familiedirektoratet":   "BUFDIR",
	"direktoratet for samfunnssikkerhet og beredskap": "DSB",
	"nasjonal sikkerhetsmyndighet":              "NSM",
	"statens vegvesen":                          "SVV",
	"statens pensjonskasse":                     "SPK",
	"statens lånekasse for utdanning":           "LÅNEKASSEN",
	"lånekassen":                                "LÅNEKASSEN",
	"brønnøysundregistrene":                     "BRREG",
	"kartverket":                                "KARTVERKET",
	"statens kartverk":                          "KARTVERKET",
	"helsedirektoratet":                         "HDIR",
	"mattilsynet":                               "MATTILSYNET",
	"miljødirektoratet":                         "MDIR",
	"arkivverket":                               "ARKIVVERKET",
	"kystverket":                                "KYSTVERKET",
	"oslo kommune":                              "OSLO KOMMUNE",
	"norges vassdrags- og energidirektorat":     "NVE",
	"forsvarets forskningsinstitutt":            "FFI",
	"direktoratet for høyere utdanning og kompetanse": "HK-DIR",
	"norges teknisk-naturvitenskapelige universitet":  "NTNU",
	"universitetet i oslo":                      "UIO",
	"universitetet i bergen":                    "UIB",
}

// knownAcronyms is the canonical set; matching entries are uppercased.
var knownAcronyms = map[string]bool{
	"NAV":         true,
	"SSB":         true,
	"FHI":         true,
	"SKE":         true,
	"UDI":         true,
	"DSB":         true,
	"NSM":         true,
	"POD":         true,
	"PIT":         true,
	"PST":         true,
	"SVV":         true,
	"SPK":         true,
	"NHN":         true,
	"NND":         true,
	"NVE":         true,
	"FFI":         true,
	"NRK":         true,
	"NTNU":        true,
	"UIO":         true,
	"UIB":         true,
	"UIT":         true,
	"UIA":         true,
	"OSLOMET":     true,
	"SIKT":        true,
	"DIGDIR":      true,
	"DIFI":        true,
	"E-HELSE":     true,
	"HDIR":        true,
	"MDIR":        true,
	"BUFDIR":      true,
	"BRREG":       true,
	"DFØ":         true,
	"DNB":         true,
	"KS":          true,
	"IMDI":        true,
	"SSØ":         true,
	"NB":          true,
	"NLB":         true,
	"NOKUT":       true,
	"HK-DIR":      true,
	"NPE":         true,
	"SYSVAK":      true,
	"KRIPOS":      true,
	"ØKOKRIM":     true,
	"TOLL":        true,
	"JD":          true,
	"KMD":         true,
	"HOD":         true,
	"FIN":         true,
	"SMK":         true,
	"DNV":         true,
	"SINTEF":      true,
	"BANE NOR":    true,
	"AVINOR":      true,
	"ENTUR":       true,
	"VY":          true,
	"POSTEN":      true,
	"TELENOR":     true,
	"KARTVERKET":  true,
	"MATTILSYNET": true,
	"ARKIVVERKET": true,
	"KYSTVERKET":  true,
	"LÅNEKASSEN":  true,
}
