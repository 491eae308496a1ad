package domain

// Catalog is the full list of Chiapas municipalities the seed loads.
// Order mirrors the source roster the agenda office works from
var Catalog = []string{
	"Acacoyagua", "Acala", "Acapetahua", "Altamirano", "Amatán", "Amatenango de la Frontera",
	"Amatenango del Valle", "Angel Albino Corzo", "Arriaga", "Bejucal de Ocampo",
	"Bella Vista", "Berriozábal", "Bochil", "Cacahoatán", "Catazajá", "Chalchihuitán",
	"Chamula", "Chanal", "Chapultenango", "Chenalhó", "Chiapa de Corzo", "Chiapilla",
	"Chicoasén", "Chicomuselo", "Chilón", "Escuintla", "Francisco León", "Frontera Comalapa",
	"Frontera Hidalgo", "Huehuetán", "Huixtán", "Huixtla", "Huitiupán", "Hunucmá",
	"Ixhuatán", "Ixtacomitán", "Ixtapa", "Ixtapangajoya", "Jiquipilas", "Jitotol",
	"Juárez", "Larráinzar", "La Libertad", "La Grandeza", "La Independencia", "La Trinitaria",
	"Las Margaritas", "Las Rosas", "Mapastepec", "Maravilla Tenejapa", "Marqués de Comillas",
	"Mazapa de Madero", "Mazatán", "Metapa", "Mitontic", "Motozintla", "Nicolás Ruíz",
	"Ocosingo", "Ocotepec", "Ocozocoautla de Espinosa", "Ostuacán", "Osumacinta",
	"Oxchuc", "Palenque", "Pantelhó", "Pantepec", "Pichucalco", "Pijijiapan",
	"Pueblo Nuevo Solistahuacán", "Rayón", "Reforma", "Sabanilla", "Salto de Agua",
	"San Andrés Duraznal", "San Cristóbal de las Casas", "San Fernando", "San Juan Cancuc",
	"San Lucas", "Santiago el Pinar", "Siltepec", "Simojovel", "Sitalá", "Socoltenango",
	"Solosuchiapa", "Soyaló", "Suchiapa", "Suchiate", "Sunuapa", "Tapachula",
	"Tapalapa", "Tapilula", "Tecpatán", "Tenejapa", "Teopisca", "Tila", "Tonalá",
	"Totolapa", "Tuxtla Gutiérrez", "Tuxtla Chico", "Tuzantán", "Tzimol", "Unión Juárez",
	"Venustiano Carranza", "Villa Comaltitlán", "Villa Corzo", "Villaflores", "Yajalón",
	"Zinacantán",
}
