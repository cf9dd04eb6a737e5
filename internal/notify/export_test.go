package notify

var NewDBusSinkWithObject = newDBusSink
