package contracts

type IExportAssembler interface {
	Assemble() (string, error)
	Export() (path string, document string, err error)
}
