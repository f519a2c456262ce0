// Package fuzztests houses Go fuzz harnesses for the front end
// (source -> lexer -> parser). Beyond smoke testing for panics and runaway
// allocations they check the round-trip and fix-it closure invariants on
// arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер/парсер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
