package entity

// RowKey clave compuesta (documento, línea) de una fila proyectada.
// Es un struct con igualdad por valor, no una concatenación de strings:
// un ID que contenga el separador nunca puede colisionar con otra clave.
type RowKey struct {
	DocumentID int64
	LineID     int64
}
