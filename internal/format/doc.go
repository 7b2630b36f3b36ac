// Package format aligns blocks of Verilog/SystemVerilog declarations,
// assignments and module port lists into columns.
//
// Назначение: разбить каждую строку блока на поля (тип, вектор, имя, массив,
// присваивание, комментарий) и выровнять их по колонкам всего блока.
// Не делает: разбора языка, проверки семантики, IO и поиска блоков в файле.
// Зависимости: internal/ranges, go-runewidth.
package format
