// Package datasource feeds raw interaction counts into the core: CSV
// persistence of count matrices and a seedable random generator.
//
// CSV layout:
//
//	,,,            optional header, every cell blank (skipped)
//	0,12,255       M records of M integers in 0..255
//	3,0,7
//	9,1,0
//
// WriteCSV never writes the header. Leading and trailing spaces around a
// number are tolerated. Anything else (a non-integer, a value above 255, a
// record of the wrong width, or fewer or more than M records) is rejected.
package datasource
